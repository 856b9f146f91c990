package db

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Dashboard caches a user's XP total and level.
type Dashboard struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TotalXP   int       `json:"total_xp"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultTaskXP is the XP of an achievement created without an explicit value.
const DefaultTaskXP = 50

// MaxXP is the largest XP value the INTEGER columns hold.
const MaxXP = math.MaxInt32

// Achievement is an awarded task contributing TaskXP to its dashboard.
type Achievement struct {
	ID          uuid.UUID `json:"id"`
	DashboardID uuid.UUID `json:"dashboard_id"`
	Title       string    `json:"title"`
	TaskXP      int       `json:"task_xp"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// FinanceGoal is a savings target. Amounts are in cents.
type FinanceGoal struct {
	ID                 uuid.UUID `json:"id"`
	DashboardID        uuid.UUID `json:"dashboard_id"`
	Title              string    `json:"title"`
	CurrentAmountCents int64     `json:"current_amount_cents"`
	GoalAmountCents    int64     `json:"goal_amount_cents"`
	DueDate            *Date     `json:"due_date"`
}

// Completed reports whether the goal amount has been reached.
func (g FinanceGoal) Completed() bool {
	return g.CurrentAmountCents >= g.GoalAmountCents
}

// Applied job statuses
const (
	AppliedStatusApplied   = "applied"
	AppliedStatusInterview = "interview"
	AppliedStatusOffer     = "offer"
	AppliedStatusRejected  = "rejected"
)

// AppliedJob is a self-reported application tracked on the dashboard.
type AppliedJob struct {
	ID          uuid.UUID `json:"id"`
	DashboardID uuid.UUID `json:"dashboard_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	AppliedOn   Date      `json:"applied_on"`
}
