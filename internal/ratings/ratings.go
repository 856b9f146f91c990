// Package ratings records users scoring each other as employers or workers and
// keeps the per-role averages cached on each profile up to date.
package ratings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/types"
)

// Aggregate is the cached rating summary for one role.
// Average is nil when there are no ratings.
type Aggregate struct {
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

// Summarize averages scores and rounds to one decimal place. Ties round to
// even on the float value, so 4.25 becomes 4.2 and 4.35 (stored just below) 4.3.
func Summarize(scores []int) Aggregate {
	if len(scores) == 0 {
		return Aggregate{}
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := roundTenths(float64(sum) / float64(len(scores)))
	return Aggregate{Average: &avg, Count: len(scores)}
}

func roundTenths(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// ValidationError reports a rating the rules reject
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NotFoundError reports a missing rating or user
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ForbiddenError reports an attempt to change someone else's rating
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Message
}

// Store is the persistence the rating service needs.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	EnsureProfile(ctx context.Context, userID uuid.UUID) error
	LockProfile(ctx context.Context, userID uuid.UUID) (bool, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*db.Profile, error)
	UpdateProfileRatings(ctx context.Context, userID uuid.UUID, role string, avg *float64, count int) error

	CreateRating(ctx context.Context, r *db.Rating) (*db.Rating, error)
	GetRating(ctx context.Context, id uuid.UUID) (*db.Rating, error)
	DeleteRating(ctx context.Context, id uuid.UUID) error
	ListRatingsForUser(ctx context.Context, rateeID uuid.UUID) ([]db.Rating, error)
	ListRatingScores(ctx context.Context, rateeID uuid.UUID, role string) ([]int, error)
}

// PostgresStore adapts *db.DB to Store.
type PostgresStore struct {
	*db.DB
}

// NewPostgresStore wraps a database handle.
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{DB: database}
}

// InTx runs fn in a database transaction.
func (p *PostgresStore) InTx(ctx context.Context, fn func(Store) error) error {
	return p.DB.InTx(ctx, func(tx *db.DB) error {
		return fn(&PostgresStore{DB: tx})
	})
}

// Service creates and deletes ratings and refreshes profile aggregates.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Rate records raterID's score of the ratee and refreshes the ratee's profile.
func (s *Service) Rate(ctx context.Context, raterID uuid.UUID, req types.RatingRequest) (*db.Rating, error) {
	rateeID, err := uuid.Parse(req.RateeID)
	if err != nil {
		return nil, &ValidationError{Field: "ratee_id", Message: "must be a UUID"}
	}
	if rateeID == raterID {
		return nil, &ValidationError{Field: "ratee_id", Message: "cannot rate yourself"}
	}
	if req.ForRole != db.RoleEmployer && req.ForRole != db.RoleWorker {
		return nil, &ValidationError{Field: "for_role", Message: "must be employer or worker"}
	}
	if req.Score < 1 || req.Score > 5 {
		return nil, &ValidationError{Field: "score", Message: "must be between 1 and 5"}
	}

	var created *db.Rating
	err = s.store.InTx(ctx, func(tx Store) error {
		ratee, err := tx.GetUser(ctx, rateeID)
		if err != nil {
			return err
		}
		if ratee == nil {
			return &NotFoundError{Resource: "user", ID: rateeID}
		}
		if err := s.lockProfile(ctx, tx, rateeID); err != nil {
			return err
		}
		created, err = tx.CreateRating(ctx, &db.Rating{
			RaterID: raterID,
			RateeID: rateeID,
			ForRole: req.ForRole,
			Score:   req.Score,
			Comment: req.Comment,
		})
		if err != nil {
			return err
		}
		return s.onRatingsChanged(ctx, tx, rateeID, req.ForRole)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Delete removes a rating written by raterID and refreshes the ratee's profile.
func (s *Service) Delete(ctx context.Context, raterID, ratingID uuid.UUID) error {
	return s.store.InTx(ctx, func(tx Store) error {
		r, err := tx.GetRating(ctx, ratingID)
		if err != nil {
			return err
		}
		if r == nil {
			return &NotFoundError{Resource: "rating", ID: ratingID}
		}
		if r.RaterID != raterID {
			return &ForbiddenError{Message: "only the author can delete a rating"}
		}
		if err := s.lockProfile(ctx, tx, r.RateeID); err != nil {
			return err
		}
		if err := tx.DeleteRating(ctx, ratingID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return &NotFoundError{Resource: "rating", ID: ratingID}
			}
			return err
		}
		return s.onRatingsChanged(ctx, tx, r.RateeID, r.ForRole)
	})
}

// Recalculate rebuilds both role aggregates for a user from their ratings.
func (s *Service) Recalculate(ctx context.Context, userID uuid.UUID) (*db.Profile, error) {
	var out *db.Profile
	err := s.store.InTx(ctx, func(tx Store) error {
		if err := s.lockProfile(ctx, tx, userID); err != nil {
			return err
		}
		for _, role := range []string{db.RoleEmployer, db.RoleWorker} {
			if err := s.onRatingsChanged(ctx, tx, userID, role); err != nil {
				return err
			}
		}
		p, err := tx.GetProfile(ctx, userID)
		out = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Profile returns a user's cached aggregates, creating the profile if needed.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*db.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil || p != nil {
		return p, err
	}
	if err := s.store.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.GetProfile(ctx, userID)
}

// ListReceived returns the ratings a user has received, newest first.
func (s *Service) ListReceived(ctx context.Context, userID uuid.UUID) ([]db.Rating, error) {
	return s.store.ListRatingsForUser(ctx, userID)
}

func (s *Service) lockProfile(ctx context.Context, tx Store, userID uuid.UUID) error {
	found, err := tx.LockProfile(ctx, userID)
	if err != nil || found {
		return err
	}
	if err := tx.EnsureProfile(ctx, userID); err != nil {
		return err
	}
	_, err = tx.LockProfile(ctx, userID)
	return err
}

// onRatingsChanged recomputes one role's aggregate from the ratee's ratings.
func (s *Service) onRatingsChanged(ctx context.Context, tx Store, rateeID uuid.UUID, role string) error {
	scores, err := tx.ListRatingScores(ctx, rateeID, role)
	if err != nil {
		return err
	}
	agg := Summarize(scores)
	if err := tx.UpdateProfileRatings(ctx, rateeID, role, agg.Average, agg.Count); err != nil {
		return err
	}
	s.logger.Debug("profile ratings updated", "user_id", rateeID, "role", role, "count", agg.Count)
	return nil
}
