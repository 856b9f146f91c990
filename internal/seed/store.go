package seed

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/nextstep/internal/db"
)

// Store is the persistence the seeder writes through.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CreateUser(ctx context.Context, email, firstName, lastName, passwordHash string) (uuid.UUID, error)
	EnsureProfile(ctx context.Context, userID uuid.UUID) error

	EnsureResume(ctx context.Context, userID uuid.UUID) (*db.Resume, error)
	UpdateResume(ctx context.Context, r *db.Resume) error
	CreateEducation(ctx context.Context, e *db.Education) (uuid.UUID, error)
	CreateExperience(ctx context.Context, e *db.Experience) (uuid.UUID, error)
	CreateSkill(ctx context.Context, s *db.Skill) (uuid.UUID, error)

	CreateDashboard(ctx context.Context, userID uuid.UUID, totalXP, level int) (*db.Dashboard, error)
	SaveDashboardState(ctx context.Context, id uuid.UUID, totalXP, level int) error
	CreateAchievement(ctx context.Context, dashboardID uuid.UUID, title string, taskXP int) (*db.Achievement, error)
	ListAchievementXP(ctx context.Context, dashboardID uuid.UUID) ([]int, error)
	CreateFinanceGoal(ctx context.Context, g *db.FinanceGoal) (*db.FinanceGoal, error)
	CreateAppliedJob(ctx context.Context, j *db.AppliedJob) (*db.AppliedJob, error)

	JobExistsByTitleCompany(ctx context.Context, title, company string) (bool, error)
	CreateJob(ctx context.Context, j *db.Job) (*db.Job, error)
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
