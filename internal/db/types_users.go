package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile holds the rating aggregates cached per user.
// Averages are nil until at least one rating exists for that role.
type Profile struct {
	UserID              uuid.UUID `json:"user_id"`
	EmployerRatingAvg   *float64  `json:"employer_rating_avg"`
	EmployerRatingCount int       `json:"employer_rating_count"`
	WorkerRatingAvg     *float64  `json:"worker_rating_avg"`
	WorkerRatingCount   int       `json:"worker_rating_count"`
}

// Rating roles
const (
	RoleEmployer = "employer"
	RoleWorker   = "worker"
)

// Rating is one user's score of another, either as employer or as worker.
type Rating struct {
	ID        uuid.UUID `json:"id"`
	RaterID   uuid.UUID `json:"rater_id"`
	RateeID   uuid.UUID `json:"ratee_id"`
	ForRole   string    `json:"for_role"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
