package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, employer_id, title, company, location, hourly_rate_min_cents, hourly_rate_max_cents,
	job_type, schedule, description, requirements, tags, rating::float8, review_count, featured, is_active, posted_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.EmployerID, &j.Title, &j.Company, &j.Location, &j.HourlyRateMinCents, &j.HourlyRateMaxCents,
		&j.JobType, &j.Schedule, &j.Description, &j.Requirements, &j.Tags, &j.Rating, &j.ReviewCount, &j.Featured, &j.IsActive, &j.PostedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts a job listing and returns it with generated fields.
func (db *DB) CreateJob(ctx context.Context, j *Job) (*Job, error) {
	requirements, tags := j.Requirements, j.Tags
	if requirements == nil {
		requirements = []string{}
	}
	if tags == nil {
		tags = []string{}
	}

	out, err := scanJob(db.q.QueryRow(ctx,
		`INSERT INTO jobs (employer_id, title, company, location, hourly_rate_min_cents, hourly_rate_max_cents,
		                   job_type, schedule, description, requirements, tags, rating, review_count, featured, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING `+jobColumns,
		j.EmployerID, j.Title, j.Company, j.Location, j.HourlyRateMinCents, j.HourlyRateMaxCents,
		j.JobType, j.Schedule, j.Description, requirements, tags, j.Rating, j.ReviewCount, j.Featured, j.IsActive,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return out, nil
}

// GetJob retrieves a job by ID regardless of its active flag; nil if missing.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	j, err := scanJob(db.q.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// JobExistsByTitleCompany reports whether a listing with this title and company exists.
func (db *DB) JobExistsByTitleCompany(ctx context.Context, title, company string) (bool, error) {
	var exists bool
	err := db.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE title = $1 AND company = $2)`,
		title, company,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check job: %w", err)
	}
	return exists, nil
}

// SetJobActive toggles whether a listing is visible.
func (db *DB) SetJobActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := db.q.Exec(ctx, `UPDATE jobs SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return affectedOne(tag, "job", id)
}

// ListJobs retrieves active jobs with optional filters.
func (db *DB) ListJobs(ctx context.Context, filters JobFilters) ([]Job, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}
	if filters.OrderBy == "" {
		filters.OrderBy = "posted_at DESC"
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE is_active`
	args := []any{}
	argNum := 1

	if filters.JobType != "" {
		query += fmt.Sprintf(" AND job_type = $%d", argNum)
		args = append(args, filters.JobType)
		argNum++
	}
	if filters.Schedule != "" {
		query += fmt.Sprintf(" AND schedule = $%d", argNum)
		args = append(args, filters.Schedule)
		argNum++
	}
	if filters.Location != "" {
		query += fmt.Sprintf(" AND location ILIKE $%d", argNum)
		args = append(args, "%"+filters.Location+"%")
		argNum++
	}
	if filters.Featured != nil {
		query += fmt.Sprintf(" AND featured = $%d", argNum)
		args = append(args, *filters.Featured)
		argNum++
	}
	if filters.Search != "" {
		query += fmt.Sprintf(` AND (title ILIKE $%[1]d OR company ILIKE $%[1]d OR description ILIKE $%[1]d
			OR array_to_string(tags, ' ') ILIKE $%[1]d)`, argNum)
		args = append(args, "%"+filters.Search+"%")
		argNum++
	}
	if filters.MinRateFromCts != nil {
		query += fmt.Sprintf(" AND hourly_rate_min_cents >= $%d", argNum)
		args = append(args, *filters.MinRateFromCts)
		argNum++
	}
	if filters.MinRateToCts != nil {
		query += fmt.Sprintf(" AND hourly_rate_min_cents <= $%d", argNum)
		args = append(args, *filters.MinRateToCts)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY %s, id LIMIT $%d OFFSET $%d", filters.OrderBy, argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// ---------------------------------------------------------------------
// Applications
// ---------------------------------------------------------------------

const applicationColumns = `id, job_id, applicant_id, cover_letter, availability, why_interested,
	relevant_experience, questions, status, applied_at, updated_at`

func scanApplication(row pgx.Row) (*JobApplication, error) {
	var a JobApplication
	err := row.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.CoverLetter, &a.Availability, &a.WhyInterested,
		&a.RelevantExperience, &a.Questions, &a.Status, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication inserts an application. A second application by the same
// applicant to the same job yields ErrDuplicate.
func (db *DB) CreateApplication(ctx context.Context, a *JobApplication) (*JobApplication, error) {
	availability := a.Availability
	if availability == nil {
		availability = []string{}
	}

	out, err := scanApplication(db.q.QueryRow(ctx,
		`INSERT INTO job_applications (job_id, applicant_id, cover_letter, availability, why_interested,
		                               relevant_experience, questions, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+applicationColumns,
		a.JobID, a.ApplicantID, a.CoverLetter, availability, a.WhyInterested, a.RelevantExperience, a.Questions, a.Status,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("application to job %s: %w", a.JobID, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return out, nil
}

// GetApplication retrieves an application by ID; nil if missing.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*JobApplication, error) {
	a, err := scanApplication(db.q.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// ListApplicationsByApplicant returns a user's applications, newest first.
// An empty status matches every status.
func (db *DB) ListApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID, status string) ([]JobApplication, error) {
	rows, err := db.q.Query(ctx,
		`SELECT `+applicationColumns+` FROM job_applications
		 WHERE applicant_id = $1 AND ($2 = '' OR status = $2)
		 ORDER BY applied_at DESC`,
		applicantID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var out []JobApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateApplicationStatus sets the status of an application.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE job_applications SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	return affectedOne(tag, "application", id)
}

// DeleteApplication removes an application owned by applicantID.
func (db *DB) DeleteApplication(ctx context.Context, applicantID, id uuid.UUID) error {
	tag, err := db.q.Exec(ctx, `DELETE FROM job_applications WHERE id = $1 AND applicant_id = $2`, id, applicantID)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return affectedOne(tag, "application", id)
}
