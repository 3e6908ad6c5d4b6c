package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kopiscan/api/internal/models"
)

var ErrPredictionNotFound = errors.New("prediction not found")

type PredictionRepository struct {
	pool *pgxpool.Pool
}

func NewPredictionRepository(pool *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{pool: pool}
}

func (r *PredictionRepository) Create(ctx context.Context, p models.Prediction) error {
	const query = `
		INSERT INTO predictions (id, user_id, object_key, raw_label, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.pool.Exec(ctx, query, p.ID, p.UserID, p.ObjectKey, p.RawLabel, p.SizeBytes)
	return err
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string) ([]models.Prediction, error) {
	const query = `
		SELECT id, user_id, object_key, raw_label, size_bytes, created_at
		FROM predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.ID, &p.UserID, &p.ObjectKey, &p.RawLabel, &p.SizeBytes, &p.CreatedAt); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

// GetOwned returns the prediction only when it belongs to userID. A record
// owned by someone else is indistinguishable from a missing one, so record
// existence never leaks across accounts.
func (r *PredictionRepository) GetOwned(ctx context.Context, id string, userID string) (models.Prediction, error) {
	const query = `
		SELECT id, user_id, object_key, raw_label, size_bytes, created_at
		FROM predictions
		WHERE id = $1 AND user_id = $2
	`
	var p models.Prediction
	row := r.pool.QueryRow(ctx, query, id, userID)
	if err := row.Scan(&p.ID, &p.UserID, &p.ObjectKey, &p.RawLabel, &p.SizeBytes, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Prediction{}, ErrPredictionNotFound
		}
		return models.Prediction{}, err
	}
	return p, nil
}

func (r *PredictionRepository) DeleteOwned(ctx context.Context, id string, userID string) error {
	const query = `DELETE FROM predictions WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPredictionNotFound
	}
	return nil
}

// ExistsByObjectKey reports whether any row references the stored artifact.
// Used by the orphan sweeper.
func (r *PredictionRepository) ExistsByObjectKey(ctx context.Context, objectKey string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM predictions WHERE object_key = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, objectKey).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
