package health

import (
	"math"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
)

// activityMultipliers is the single source of truth for valid activity
// levels; it doubles as the validation set in IsProfileComplete.
var activityMultipliers = map[string]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// goalMultipliers scales the calorie target per fitness goal. Goals not
// listed here (maintain, endurance, general fitness) keep TDEE as-is.
var goalMultipliers = map[string]float64{
	models.GoalLoseWeight: 0.8,
	models.GoalGainMuscle: 1.1,
}

var validGenders = map[string]struct{}{
	models.GenderMale:   {},
	models.GenderFemale: {},
	models.GenderOther:  {},
}

var validGoals = map[string]struct{}{
	models.GoalLoseWeight:       {},
	models.GoalGainMuscle:       {},
	models.GoalMaintainWeight:   {},
	models.GoalImproveEndurance: {},
	models.GoalGeneralFitness:   {},
}

// BMI returns weight/(height in meters)^2 rounded to one decimal place.
// ok is false when either input is zero or negative; no error, no panic.
func BMI(weightKG, heightCM float64) (float64, bool) {
	if weightKG <= 0 || heightCM <= 0 {
		return 0, false
	}
	meters := heightCM / 100
	bmi := weightKG / (meters * meters)
	return math.Round(bmi*10) / 10, true
}

// BMICategory buckets a BMI value. Boundaries are exclusive upper bounds:
// 18.5 is already healthy, 25.0 already overweight, 30.0 already obese.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "healthy"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

// BMR computes basal metabolic rate (kcal) via Mifflin-St Jeor. Anything
// other than "male" takes the female constant, including "other" — that
// fold-in is long-standing upstream behavior and must not grow a third
// branch.
func BMR(weightKG, heightCM float64, age int, gender string) int {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if gender == models.GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return int(math.Round(bmr))
}

// ActivityMultiplier never fails: unknown or empty levels fall back to
// sedentary (1.2).
func ActivityMultiplier(level string) float64 {
	if mult, ok := activityMultipliers[level]; ok {
		return mult
	}
	return 1.2
}

func TDEE(bmr int, level string) int {
	return int(math.Round(float64(bmr) * ActivityMultiplier(level)))
}

// GoalMultiplier never fails: unknown goals maintain (1.0).
func GoalMultiplier(goal string) float64 {
	if mult, ok := goalMultipliers[goal]; ok {
		return mult
	}
	return 1.0
}

// MacroTargets holds the daily targets handed to the plan generator.
type MacroTargets struct {
	Calories int
	Protein  int
	Carbs    int
	Fat      int
}

// Macros derives daily targets from TDEE and goal. Protein is 2.2 g per kg
// of body weight, fat takes 25% of calories, carbs get the remainder. The
// carb target is deliberately not clamped: a negative value signals an
// implausible profile and is the caller's to interpret.
func Macros(weightKG float64, tdee int, goal string) MacroTargets {
	calories := int(math.Round(float64(tdee) * GoalMultiplier(goal)))
	protein := int(math.Round(weightKG * 2.2))
	fat := int(math.Round(float64(calories) * 0.25 / 9))
	carbs := int(math.Round(float64(calories-protein*4-fat*9) / 4))
	return MacroTargets{
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}
}

// Compute derives every metric the profile snapshot supports. Missing
// prerequisites disable only the dependent metrics: a profile with just
// weight and height still gets a BMI.
func Compute(profile *models.Profile) models.HealthMetrics {
	var metrics models.HealthMetrics
	if profile == nil {
		return metrics
	}

	weight := derefFloat(profile.WeightKG)
	height := derefFloat(profile.HeightCM)

	if bmi, ok := BMI(weight, height); ok {
		category := BMICategory(bmi)
		metrics.BMI = &bmi
		metrics.BMICategory = &category
	}

	if weight <= 0 || height <= 0 || profile.Age == nil || *profile.Age <= 0 || profile.Gender == nil {
		return metrics
	}

	bmr := BMR(weight, height, *profile.Age, *profile.Gender)
	tdee := TDEE(bmr, derefString(profile.ActivityLevel))
	macros := Macros(weight, tdee, derefString(profile.FitnessGoal))

	metrics.BMR = &bmr
	metrics.TDEE = &tdee
	metrics.TargetCalories = &macros.Calories
	metrics.TargetProtein = &macros.Protein
	metrics.TargetCarbs = &macros.Carbs
	metrics.TargetFat = &macros.Fat
	return metrics
}

// IsProfileComplete reports whether the six wizard-required fields are all
// present and in range. Gym days, dietary restrictions and allergies are
// optional and never affect the result.
func IsProfileComplete(profile *models.Profile) bool {
	if profile == nil {
		return false
	}
	if profile.Age == nil || *profile.Age < models.MinAge || *profile.Age > models.MaxAge {
		return false
	}
	if profile.WeightKG == nil || *profile.WeightKG < models.MinWeightKG || *profile.WeightKG > models.MaxWeightKG {
		return false
	}
	if profile.HeightCM == nil || *profile.HeightCM < models.MinHeightCM || *profile.HeightCM > models.MaxHeightCM {
		return false
	}
	if profile.Gender == nil {
		return false
	}
	if _, ok := validGenders[*profile.Gender]; !ok {
		return false
	}
	if profile.ActivityLevel == nil {
		return false
	}
	if _, ok := activityMultipliers[*profile.ActivityLevel]; !ok {
		return false
	}
	if profile.FitnessGoal == nil {
		return false
	}
	if _, ok := validGoals[*profile.FitnessGoal]; !ok {
		return false
	}
	return true
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
