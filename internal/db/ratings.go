package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateRating inserts a rating and returns it with its generated fields.
func (db *DB) CreateRating(ctx context.Context, r *Rating) (*Rating, error) {
	out := *r
	err := db.q.QueryRow(ctx,
		`INSERT INTO ratings (rater_id, ratee_id, for_role, score, comment)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		r.RaterID, r.RateeID, r.ForRole, r.Score, r.Comment,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}
	return &out, nil
}

// GetRating retrieves a rating by ID; nil if missing.
func (db *DB) GetRating(ctx context.Context, id uuid.UUID) (*Rating, error) {
	var r Rating
	err := db.q.QueryRow(ctx,
		`SELECT id, rater_id, ratee_id, for_role, score, comment, created_at FROM ratings WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.RaterID, &r.RateeID, &r.ForRole, &r.Score, &r.Comment, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &r, nil
}

// DeleteRating removes a rating.
func (db *DB) DeleteRating(ctx context.Context, id uuid.UUID) error {
	tag, err := db.q.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	return affectedOne(tag, "rating", id)
}

// ListRatingsForUser returns every rating received by a user, newest first.
func (db *DB) ListRatingsForUser(ctx context.Context, rateeID uuid.UUID) ([]Rating, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, rater_id, ratee_id, for_role, score, comment, created_at
		 FROM ratings WHERE ratee_id = $1 ORDER BY created_at DESC`,
		rateeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.RaterID, &r.RateeID, &r.ForRole, &r.Score, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// ListRatingScores returns the scores a user received for one role.
func (db *DB) ListRatingScores(ctx context.Context, rateeID uuid.UUID, role string) ([]int, error) {
	rows, err := db.q.Query(ctx,
		`SELECT score FROM ratings WHERE ratee_id = $1 AND for_role = $2`,
		rateeID, role,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rating scores: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}
