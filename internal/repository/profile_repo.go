package repository

import (
	"context"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT id, user_id, age, gender, height_cm, weight_kg, activity_level,
			   fitness_goal, gym_days_per_week, dietary_restrictions, allergies, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Age,
		&profile.Gender,
		&profile.HeightCM,
		&profile.WeightKG,
		&profile.ActivityLevel,
		&profile.FitnessGoal,
		&profile.GymDaysPerWeek,
		&profile.DietaryRestrictions,
		&profile.Allergies,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Submit writes a full wizard submission. Unlike UpdatePartial this
// overwrites every wizard field, so an abandoned value from an earlier
// submission cannot survive a fresh one.
func (r *ProfileRepository) Submit(ctx context.Context, userID int64, req SubmitProfileInput) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET age = $1,
			gender = $2,
			height_cm = $3,
			weight_kg = $4,
			activity_level = $5,
			fitness_goal = $6,
			gym_days_per_week = $7,
			dietary_restrictions = $8,
			allergies = $9,
			updated_at = NOW()
		WHERE user_id = $10
		RETURNING id, user_id, age, gender, height_cm, weight_kg, activity_level,
				  fitness_goal, gym_days_per_week, dietary_restrictions, allergies, created_at, updated_at
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query,
		req.Age,
		req.Gender,
		req.HeightCM,
		req.WeightKG,
		req.ActivityLevel,
		req.FitnessGoal,
		req.GymDaysPerWeek,
		req.DietaryRestrictions,
		req.Allergies,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Age,
		&profile.Gender,
		&profile.HeightCM,
		&profile.WeightKG,
		&profile.ActivityLevel,
		&profile.FitnessGoal,
		&profile.GymDaysPerWeek,
		&profile.DietaryRestrictions,
		&profile.Allergies,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateProfileInput) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET age = COALESCE($1, age),
			gender = COALESCE($2, gender),
			height_cm = COALESCE($3, height_cm),
			weight_kg = COALESCE($4, weight_kg),
			activity_level = COALESCE($5, activity_level),
			fitness_goal = COALESCE($6, fitness_goal),
			gym_days_per_week = COALESCE($7, gym_days_per_week),
			dietary_restrictions = COALESCE($8, dietary_restrictions),
			allergies = COALESCE($9, allergies),
			updated_at = NOW()
		WHERE user_id = $10
		RETURNING id, user_id, age, gender, height_cm, weight_kg, activity_level,
				  fitness_goal, gym_days_per_week, dietary_restrictions, allergies, created_at, updated_at
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query,
		req.Age,
		req.Gender,
		req.HeightCM,
		req.WeightKG,
		req.ActivityLevel,
		req.FitnessGoal,
		req.GymDaysPerWeek,
		req.DietaryRestrictions,
		req.Allergies,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Age,
		&profile.Gender,
		&profile.HeightCM,
		&profile.WeightKG,
		&profile.ActivityLevel,
		&profile.FitnessGoal,
		&profile.GymDaysPerWeek,
		&profile.DietaryRestrictions,
		&profile.Allergies,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type SubmitProfileInput struct {
	Age                 int
	Gender              string
	HeightCM            float64
	WeightKG            float64
	ActivityLevel       string
	FitnessGoal         string
	GymDaysPerWeek      *int
	DietaryRestrictions []string
	Allergies           []string
}

type UpdateProfileInput struct {
	Age                 *int
	Gender              *string
	HeightCM            *float64
	WeightKG            *float64
	ActivityLevel       *string
	FitnessGoal         *string
	GymDaysPerWeek      *int
	DietaryRestrictions *[]string
	Allergies           *[]string
}
