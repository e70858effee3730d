package handlers

import (
	"fmt"
	"strings"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/services"
)

var allowedGenders = map[string]struct{}{
	models.GenderMale:   {},
	models.GenderFemale: {},
	models.GenderOther:  {},
}

var allowedActivityLevels = map[string]struct{}{
	models.ActivitySedentary:  {},
	models.ActivityLight:      {},
	models.ActivityModerate:   {},
	models.ActivityActive:     {},
	models.ActivityVeryActive: {},
}

var allowedFitnessGoals = map[string]struct{}{
	models.GoalLoseWeight:       {},
	models.GoalGainMuscle:       {},
	models.GoalMaintainWeight:   {},
	models.GoalImproveEndurance: {},
	models.GoalGeneralFitness:   {},
}

// validateDraftFields checks whatever subset a wizard step or a partial
// update carries. Absent fields are fine here; completeness is enforced
// at submission, not per step.
func validateDraftFields(fields services.DraftFields) string {
	if fields.Age != nil && (*fields.Age < models.MinAge || *fields.Age > models.MaxAge) {
		return fmt.Sprintf("age must be between %d and %d", models.MinAge, models.MaxAge)
	}
	if fields.Gender != nil {
		if err := validateGender(*fields.Gender); err != "" {
			return err
		}
	}
	if fields.HeightCM != nil && (*fields.HeightCM < models.MinHeightCM || *fields.HeightCM > models.MaxHeightCM) {
		return fmt.Sprintf("height_cm must be between %v and %v", models.MinHeightCM, models.MaxHeightCM)
	}
	if fields.WeightKG != nil && (*fields.WeightKG < models.MinWeightKG || *fields.WeightKG > models.MaxWeightKG) {
		return fmt.Sprintf("weight_kg must be between %v and %v", models.MinWeightKG, models.MaxWeightKG)
	}
	if fields.ActivityLevel != nil {
		if err := validateActivityLevel(*fields.ActivityLevel); err != "" {
			return err
		}
	}
	if fields.FitnessGoal != nil {
		if err := validateFitnessGoal(*fields.FitnessGoal); err != "" {
			return err
		}
	}
	if fields.GymDaysPerWeek != nil && (*fields.GymDaysPerWeek < 0 || *fields.GymDaysPerWeek > 7) {
		return "gym_days_per_week must be between 0 and 7"
	}
	if fields.DietaryRestrictions != nil {
		for _, item := range *fields.DietaryRestrictions {
			if strings.TrimSpace(item) == "" {
				return "dietary_restrictions must not contain empty values"
			}
		}
	}
	if fields.Allergies != nil {
		for _, item := range *fields.Allergies {
			if strings.TrimSpace(item) == "" {
				return "allergies must not contain empty values"
			}
		}
	}
	return ""
}

func validateGender(gender string) string {
	if _, ok := allowedGenders[strings.TrimSpace(gender)]; !ok {
		return "gender must be one of: male, female, other"
	}
	return ""
}

func validateActivityLevel(level string) string {
	if _, ok := allowedActivityLevels[strings.TrimSpace(level)]; !ok {
		return "activity_level must be one of: sedentary, light, moderate, active, very_active"
	}
	return ""
}

func validateFitnessGoal(goal string) string {
	if _, ok := allowedFitnessGoals[strings.TrimSpace(goal)]; !ok {
		return "fitness_goal must be one of: lose_weight, gain_muscle, maintain_weight, improve_endurance, general_fitness"
	}
	return ""
}
