package models

// HealthMetrics is derived from a Profile snapshot and never persisted.
// Pointer fields are nil when their numeric prerequisites are missing:
// BMI needs weight and height, everything below it additionally needs
// age and gender. Partial results are normal for mid-wizard profiles.
type HealthMetrics struct {
	BMI            *float64 `json:"bmi"`
	BMICategory    *string  `json:"bmi_category"`
	BMR            *int     `json:"bmr"`
	TDEE           *int     `json:"tdee"`
	TargetCalories *int     `json:"target_calories"`
	TargetProtein  *int     `json:"target_protein"`
	TargetCarbs    *int     `json:"target_carbs"`
	TargetFat      *int     `json:"target_fat"`
}
