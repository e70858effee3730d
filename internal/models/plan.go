package models

import (
	"encoding/json"
	"time"
)

const (
	PlanTypeWorkout   = "workout"
	PlanTypeNutrition = "nutrition"
)

// Plan is a generated workout or nutrition program for a single user.
// Content is stored as the generator returned it (JSON document); the
// API serves it back verbatim.
type Plan struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	PlanType  string          `json:"plan_type"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
