package models

import "time"

// Enum values accepted for the profile selector fields. The range limits
// mirror what the setup wizard enforces client-side.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"

	GoalLoseWeight       = "lose_weight"
	GoalGainMuscle       = "gain_muscle"
	GoalMaintainWeight   = "maintain_weight"
	GoalImproveEndurance = "improve_endurance"
	GoalGeneralFitness   = "general_fitness"
)

const (
	MinAge      = 13
	MaxAge      = 120
	MinWeightKG = 30.0
	MaxWeightKG = 300.0
	MinHeightCM = 100.0
	MaxHeightCM = 250.0
)

// Profile holds a user's fitness attributes. All wizard-collected fields are
// nullable: a row is created empty at registration and filled in when the
// user submits the setup wizard.
type Profile struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	Age                 *int      `json:"age"`
	Gender              *string   `json:"gender"`
	HeightCM            *float64  `json:"height_cm"`
	WeightKG            *float64  `json:"weight_kg"`
	ActivityLevel       *string   `json:"activity_level"`
	FitnessGoal         *string   `json:"fitness_goal"`
	GymDaysPerWeek      *int      `json:"gym_days_per_week"`
	DietaryRestrictions *[]string `json:"dietary_restrictions"`
	Allergies           *[]string `json:"allergies"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
