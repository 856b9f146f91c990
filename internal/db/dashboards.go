package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const dashboardColumns = `id, user_id, total_xp, level, created_at, updated_at`

func scanDashboard(row pgx.Row) (*Dashboard, error) {
	var d Dashboard
	if err := row.Scan(&d.ID, &d.UserID, &d.TotalXP, &d.Level, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDashboard inserts a dashboard for a user with the given state.
// If the user already has one, the existing row is returned untouched.
func (db *DB) CreateDashboard(ctx context.Context, userID uuid.UUID, totalXP, level int) (*Dashboard, error) {
	_, err := db.q.Exec(ctx,
		`INSERT INTO dashboards (user_id, total_xp, level) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, totalXP, level,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard: %w", err)
	}
	return db.GetDashboardByUser(ctx, userID)
}

// GetDashboardByUser retrieves a user's dashboard; nil if missing.
func (db *DB) GetDashboardByUser(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	d, err := scanDashboard(db.q.QueryRow(ctx, `SELECT `+dashboardColumns+` FROM dashboards WHERE user_id = $1`, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}
	return d, nil
}

// LockDashboardByUser retrieves a user's dashboard and holds a row lock until the
// surrounding transaction ends. Must be called inside InTx.
func (db *DB) LockDashboardByUser(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	d, err := scanDashboard(db.q.QueryRow(ctx, `SELECT `+dashboardColumns+` FROM dashboards WHERE user_id = $1 FOR UPDATE`, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock dashboard: %w", err)
	}
	return d, nil
}

// SaveDashboardState writes total_xp and level.
func (db *DB) SaveDashboardState(ctx context.Context, id uuid.UUID, totalXP, level int) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE dashboards SET total_xp = $2, level = $3, updated_at = NOW() WHERE id = $1`,
		id, totalXP, level,
	)
	if err != nil {
		return fmt.Errorf("failed to save dashboard: %w", err)
	}
	return affectedOne(tag, "dashboard", id)
}

// ---------------------------------------------------------------------
// Achievements
// ---------------------------------------------------------------------

// CreateAchievement inserts an achievement on a dashboard.
func (db *DB) CreateAchievement(ctx context.Context, dashboardID uuid.UUID, title string, taskXP int) (*Achievement, error) {
	a := Achievement{DashboardID: dashboardID, Title: title, TaskXP: taskXP}
	err := db.q.QueryRow(ctx,
		`INSERT INTO achievements (dashboard_id, title, task_xp) VALUES ($1, $2, $3)
		 RETURNING id, awarded_at`,
		dashboardID, title, taskXP,
	).Scan(&a.ID, &a.AwardedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return &a, nil
}

// DeleteAchievement removes an achievement belonging to dashboardID.
func (db *DB) DeleteAchievement(ctx context.Context, dashboardID, id uuid.UUID) error {
	tag, err := db.q.Exec(ctx, `DELETE FROM achievements WHERE id = $1 AND dashboard_id = $2`, id, dashboardID)
	if err != nil {
		return fmt.Errorf("failed to delete achievement: %w", err)
	}
	return affectedOne(tag, "achievement", id)
}

// ListAchievements returns a dashboard's achievements, newest first.
func (db *DB) ListAchievements(ctx context.Context, dashboardID uuid.UUID) ([]Achievement, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, dashboard_id, title, task_xp, awarded_at
		 FROM achievements WHERE dashboard_id = $1 ORDER BY awarded_at DESC, id DESC`,
		dashboardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var out []Achievement
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.DashboardID, &a.Title, &a.TaskXP, &a.AwardedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListAchievementXP returns the task_xp of every achievement on a dashboard.
func (db *DB) ListAchievementXP(ctx context.Context, dashboardID uuid.UUID) ([]int, error) {
	rows, err := db.q.Query(ctx, `SELECT task_xp FROM achievements WHERE dashboard_id = $1`, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement xp: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

// ---------------------------------------------------------------------
// Finance goals
// ---------------------------------------------------------------------

// CreateFinanceGoal inserts a finance goal.
func (db *DB) CreateFinanceGoal(ctx context.Context, g *FinanceGoal) (*FinanceGoal, error) {
	out := *g
	err := db.q.QueryRow(ctx,
		`INSERT INTO finance_goals (dashboard_id, title, current_amount_cents, goal_amount_cents, due_date)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		g.DashboardID, g.Title, g.CurrentAmountCents, g.GoalAmountCents, g.DueDate,
	).Scan(&out.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create finance goal: %w", err)
	}
	return &out, nil
}

// UpdateFinanceGoal overwrites a finance goal belonging to g.DashboardID.
func (db *DB) UpdateFinanceGoal(ctx context.Context, g *FinanceGoal) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE finance_goals SET title = $3, current_amount_cents = $4, goal_amount_cents = $5, due_date = $6
		 WHERE id = $1 AND dashboard_id = $2`,
		g.ID, g.DashboardID, g.Title, g.CurrentAmountCents, g.GoalAmountCents, g.DueDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update finance goal: %w", err)
	}
	return affectedOne(tag, "finance goal", g.ID)
}

// DeleteFinanceGoal removes a finance goal belonging to dashboardID.
func (db *DB) DeleteFinanceGoal(ctx context.Context, dashboardID, id uuid.UUID) error {
	tag, err := db.q.Exec(ctx, `DELETE FROM finance_goals WHERE id = $1 AND dashboard_id = $2`, id, dashboardID)
	if err != nil {
		return fmt.Errorf("failed to delete finance goal: %w", err)
	}
	return affectedOne(tag, "finance goal", id)
}

// ListFinanceGoals returns a dashboard's goals ordered by due date then title.
func (db *DB) ListFinanceGoals(ctx context.Context, dashboardID uuid.UUID) ([]FinanceGoal, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, dashboard_id, title, current_amount_cents, goal_amount_cents, due_date
		 FROM finance_goals WHERE dashboard_id = $1 ORDER BY due_date NULLS LAST, title`,
		dashboardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list finance goals: %w", err)
	}
	defer rows.Close()

	var out []FinanceGoal
	for rows.Next() {
		var g FinanceGoal
		if err := rows.Scan(&g.ID, &g.DashboardID, &g.Title, &g.CurrentAmountCents, &g.GoalAmountCents, &g.DueDate); err != nil {
			return nil, fmt.Errorf("failed to scan finance goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------
// Applied jobs
// ---------------------------------------------------------------------

// CreateAppliedJob inserts an applied job. A zero AppliedOn means today.
func (db *DB) CreateAppliedJob(ctx context.Context, j *AppliedJob) (*AppliedJob, error) {
	out := *j
	err := db.q.QueryRow(ctx,
		`INSERT INTO applied_jobs (dashboard_id, title, company, location, status, applied_on)
		 VALUES ($1, $2, $3, $4, $5, COALESCE($6, CURRENT_DATE)) RETURNING id, applied_on`,
		j.DashboardID, j.Title, j.Company, j.Location, j.Status, &j.AppliedOn,
	).Scan(&out.ID, &out.AppliedOn)
	if err != nil {
		return nil, fmt.Errorf("failed to create applied job: %w", err)
	}
	return &out, nil
}

// UpdateAppliedJob overwrites an applied job belonging to j.DashboardID.
func (db *DB) UpdateAppliedJob(ctx context.Context, j *AppliedJob) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE applied_jobs SET title = $3, company = $4, location = $5, status = $6,
		        applied_on = COALESCE($7, applied_on)
		 WHERE id = $1 AND dashboard_id = $2`,
		j.ID, j.DashboardID, j.Title, j.Company, j.Location, j.Status, &j.AppliedOn,
	)
	if err != nil {
		return fmt.Errorf("failed to update applied job: %w", err)
	}
	return affectedOne(tag, "applied job", j.ID)
}

// DeleteAppliedJob removes an applied job belonging to dashboardID.
func (db *DB) DeleteAppliedJob(ctx context.Context, dashboardID, id uuid.UUID) error {
	tag, err := db.q.Exec(ctx, `DELETE FROM applied_jobs WHERE id = $1 AND dashboard_id = $2`, id, dashboardID)
	if err != nil {
		return fmt.Errorf("failed to delete applied job: %w", err)
	}
	return affectedOne(tag, "applied job", id)
}

// ListAppliedJobs returns a dashboard's applied jobs, most recent first.
func (db *DB) ListAppliedJobs(ctx context.Context, dashboardID uuid.UUID) ([]AppliedJob, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, dashboard_id, title, company, location, status, applied_on
		 FROM applied_jobs WHERE dashboard_id = $1 ORDER BY applied_on DESC, company`,
		dashboardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied jobs: %w", err)
	}
	defer rows.Close()

	var out []AppliedJob
	for rows.Next() {
		var j AppliedJob
		if err := rows.Scan(&j.ID, &j.DashboardID, &j.Title, &j.Company, &j.Location, &j.Status, &j.AppliedOn); err != nil {
			return nil, fmt.Errorf("failed to scan applied job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
