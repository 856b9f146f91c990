package gamification

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
)

// Store is the persistence the dashboard service needs. Implementations must
// run fn inside one transaction in InTx and hand it a Store bound to it.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	CreateDashboard(ctx context.Context, userID uuid.UUID, totalXP, level int) (*db.Dashboard, error)
	GetDashboardByUser(ctx context.Context, userID uuid.UUID) (*db.Dashboard, error)
	LockDashboardByUser(ctx context.Context, userID uuid.UUID) (*db.Dashboard, error)
	SaveDashboardState(ctx context.Context, id uuid.UUID, totalXP, level int) error

	CreateAchievement(ctx context.Context, dashboardID uuid.UUID, title string, taskXP int) (*db.Achievement, error)
	DeleteAchievement(ctx context.Context, dashboardID, id uuid.UUID) error
	ListAchievements(ctx context.Context, dashboardID uuid.UUID) ([]db.Achievement, error)
	ListAchievementXP(ctx context.Context, dashboardID uuid.UUID) ([]int, error)

	CreateFinanceGoal(ctx context.Context, g *db.FinanceGoal) (*db.FinanceGoal, error)
	UpdateFinanceGoal(ctx context.Context, g *db.FinanceGoal) error
	DeleteFinanceGoal(ctx context.Context, dashboardID, id uuid.UUID) error
	ListFinanceGoals(ctx context.Context, dashboardID uuid.UUID) ([]db.FinanceGoal, error)

	CreateAppliedJob(ctx context.Context, j *db.AppliedJob) (*db.AppliedJob, error)
	UpdateAppliedJob(ctx context.Context, j *db.AppliedJob) error
	DeleteAppliedJob(ctx context.Context, dashboardID, id uuid.UUID) error
	ListAppliedJobs(ctx context.Context, dashboardID uuid.UUID) ([]db.AppliedJob, error)
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
