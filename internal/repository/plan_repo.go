package repository

import (
	"context"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
)

type CreatePlanInput struct {
	UserID   int64
	PlanType string
	Title    string
	Content  []byte
}

type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create inserts a new plan and retires the user's previous active plan of
// the same type in one statement pair; callers wrap it in a transaction
// when atomicity matters.
func (r *PlanRepository) Create(ctx context.Context, input CreatePlanInput) (*models.Plan, error) {
	deactivate := `
		UPDATE plans
		SET active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND plan_type = $2 AND active
	`
	if _, err := r.db.Exec(ctx, deactivate, input.UserID, input.PlanType); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO plans (user_id, plan_type, title, content, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, user_id, plan_type, title, content, active, created_at, updated_at
	`
	var plan models.Plan
	err := r.db.QueryRow(ctx, query,
		input.UserID,
		input.PlanType,
		input.Title,
		input.Content,
	).Scan(
		&plan.ID,
		&plan.UserID,
		&plan.PlanType,
		&plan.Title,
		&plan.Content,
		&plan.Active,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]models.Plan, error) {
	query := `
		SELECT id, user_id, plan_type, title, content, active, created_at, updated_at
		FROM plans
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]models.Plan, 0)
	for rows.Next() {
		var plan models.Plan
		if err := rows.Scan(
			&plan.ID,
			&plan.UserID,
			&plan.PlanType,
			&plan.Title,
			&plan.Content,
			&plan.Active,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *PlanRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM plans WHERE user_id = $1`
	var total int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PlanRepository) GetByID(ctx context.Context, planID int64) (*models.Plan, error) {
	query := `
		SELECT id, user_id, plan_type, title, content, active, created_at, updated_at
		FROM plans
		WHERE id = $1
	`
	var plan models.Plan
	err := r.db.QueryRow(ctx, query, planID).Scan(
		&plan.ID,
		&plan.UserID,
		&plan.PlanType,
		&plan.Title,
		&plan.Content,
		&plan.Active,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
