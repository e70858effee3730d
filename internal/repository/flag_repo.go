package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// FlagRepository is a per-user key/value store for boolean flags that must
// survive across sessions, currently just the nudge dismissal.
type FlagRepository struct {
	db DBTX
}

func NewFlagRepository(db DBTX) *FlagRepository {
	return &FlagRepository{db: db}
}

func (r *FlagRepository) Get(ctx context.Context, userID int64, key string) (bool, error) {
	query := `
		SELECT value
		FROM user_flags
		WHERE user_id = $1 AND flag_key = $2
	`
	var value bool
	err := r.db.QueryRow(ctx, query, userID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value, nil
}

func (r *FlagRepository) Set(ctx context.Context, userID int64, key string) error {
	query := `
		INSERT INTO user_flags (user_id, flag_key, value)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id, flag_key) DO UPDATE SET value = TRUE, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, userID, key)
	return err
}

func (r *FlagRepository) Clear(ctx context.Context, userID int64, key string) error {
	query := `DELETE FROM user_flags WHERE user_id = $1 AND flag_key = $2`
	_, err := r.db.Exec(ctx, query, userID, key)
	return err
}
