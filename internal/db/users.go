package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, first_name, last_name, password_hash, password_set, is_staff, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.PasswordSet, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user with an already-hashed password and returns its ID.
// Emails are stored lower-cased; a taken email yields ErrDuplicate.
func (db *DB) CreateUser(ctx context.Context, email, firstName, lastName, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.q.QueryRow(ctx,
		`INSERT INTO users (email, first_name, last_name, password_hash, password_set)
		 VALUES ($1, $2, $3, $4, $4 <> '')
		 RETURNING id`,
		normalizeEmail(email), firstName, lastName, passwordHash,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("email %s: %w", email, ErrDuplicate)
		}
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID; nil if missing.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(db.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email (case-insensitive); nil if missing.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(db.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// CheckEmailExists reports whether an account already uses email.
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, normalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdateUserNames updates the display names of a user.
func (db *DB) UpdateUserNames(ctx context.Context, id uuid.UUID, firstName, lastName string) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, updated_at = NOW() WHERE id = $1`,
		id, firstName, lastName,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return affectedOne(tag, "user", id)
}

// UpdatePassword stores a new password hash and marks the password as set.
func (db *DB) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE users SET password_hash = $2, password_set = TRUE, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return affectedOne(tag, "user", id)
}

// DeleteUser removes a user and everything they own (via cascade).
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := db.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return affectedOne(tag, "user", id)
}

// EnsureProfile creates the rating profile row for a user if missing.
func (db *DB) EnsureProfile(ctx context.Context, userID uuid.UUID) error {
	_, err := db.q.Exec(ctx, `INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

// GetProfile retrieves the rating profile of a user; nil if missing.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := db.q.QueryRow(ctx,
		`SELECT user_id, employer_rating_avg::float8, employer_rating_count, worker_rating_avg::float8, worker_rating_count
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.EmployerRatingAvg, &p.EmployerRatingCount, &p.WorkerRatingAvg, &p.WorkerRatingCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// LockProfile takes a row lock on a user's profile for the surrounding transaction.
// It reports false when the profile does not exist.
func (db *DB) LockProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	var id uuid.UUID
	err := db.q.QueryRow(ctx, `SELECT user_id FROM profiles WHERE user_id = $1 FOR UPDATE`, userID).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to lock profile: %w", err)
	}
	return true, nil
}

// UpdateProfileRatings overwrites the cached aggregates for one role.
func (db *DB) UpdateProfileRatings(ctx context.Context, userID uuid.UUID, role string, avg *float64, count int) error {
	var query string
	switch role {
	case RoleEmployer:
		query = `UPDATE profiles SET employer_rating_avg = $2, employer_rating_count = $3 WHERE user_id = $1`
	case RoleWorker:
		query = `UPDATE profiles SET worker_rating_avg = $2, worker_rating_count = $3 WHERE user_id = $1`
	default:
		return fmt.Errorf("unknown rating role: %q", role)
	}

	tag, err := db.q.Exec(ctx, query, userID, avg, count)
	if err != nil {
		return fmt.Errorf("failed to update profile ratings: %w", err)
	}
	return affectedOne(tag, "profile", userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
