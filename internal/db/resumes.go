package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EnsureResume returns the user's resume, creating an empty one if missing.
func (db *DB) EnsureResume(ctx context.Context, userID uuid.UUID) (*Resume, error) {
	_, err := db.q.Exec(ctx, `INSERT INTO resumes (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure resume: %w", err)
	}
	return db.GetResumeByUser(ctx, userID)
}

// GetResumeByUser retrieves a user's resume; nil if missing.
func (db *DB) GetResumeByUser(ctx context.Context, userID uuid.UUID) (*Resume, error) {
	var r Resume
	err := db.q.QueryRow(ctx,
		`SELECT id, user_id, phone, location, linkedin FROM resumes WHERE user_id = $1`,
		userID,
	).Scan(&r.ID, &r.UserID, &r.Phone, &r.Location, &r.LinkedIn)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}

// UpdateResume overwrites the contact details of a resume.
func (db *DB) UpdateResume(ctx context.Context, r *Resume) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE resumes SET phone = $2, location = $3, linkedin = $4 WHERE id = $1`,
		r.ID, r.Phone, r.Location, r.LinkedIn,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	return affectedOne(tag, "resume", r.ID)
}

// GetResumeDetails loads a resume with its education, experience and skills.
func (db *DB) GetResumeDetails(ctx context.Context, userID uuid.UUID) (*ResumeDetails, error) {
	r, err := db.GetResumeByUser(ctx, userID)
	if err != nil || r == nil {
		return nil, err
	}

	details := &ResumeDetails{Resume: *r}
	if details.Educations, err = db.ListEducation(ctx, r.ID); err != nil {
		return nil, err
	}
	if details.Experiences, err = db.ListExperiences(ctx, r.ID); err != nil {
		return nil, err
	}
	if details.Skills, err = db.ListSkills(ctx, r.ID); err != nil {
		return nil, err
	}
	return details, nil
}

// ---------------------------------------------------------------------
// Education
// ---------------------------------------------------------------------

// CreateEducation inserts an education entry.
func (db *DB) CreateEducation(ctx context.Context, e *Education) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.q.QueryRow(ctx,
		`INSERT INTO educations (resume_id, school_name, degree, field_of_study, start_date, end_date, gpa)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		e.ResumeID, e.SchoolName, e.Degree, e.FieldOfStudy, e.Start, e.End, e.GPA,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create education: %w", err)
	}
	return id, nil
}

// UpdateEducation overwrites an education entry belonging to e.ResumeID.
func (db *DB) UpdateEducation(ctx context.Context, e *Education) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE educations SET school_name = $3, degree = $4, field_of_study = $5, start_date = $6, end_date = $7, gpa = $8
		 WHERE id = $1 AND resume_id = $2`,
		e.ID, e.ResumeID, e.SchoolName, e.Degree, e.FieldOfStudy, e.Start, e.End, e.GPA,
	)
	if err != nil {
		return fmt.Errorf("failed to update education: %w", err)
	}
	return affectedOne(tag, "education", e.ID)
}

// DeleteEducation removes an education entry belonging to resumeID.
func (db *DB) DeleteEducation(ctx context.Context, resumeID, id uuid.UUID) error {
	tag, err := db.q.Exec(ctx, `DELETE FROM educations WHERE id = $1 AND resume_id = $2`, id, resumeID)
	if err != nil {
		return fmt.Errorf("failed to delete education: %w", err)
	}
	return affectedOne(tag, "education", id)
}

// ListEducation returns a resume's education ordered by start date then school.
func (db *DB) ListEducation(ctx context.Context, resumeID uuid.UUID) ([]Education, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, resume_id, school_name, degree, field_of_study, start_date, end_date, gpa::float8
		 FROM educations WHERE resume_id = $1 ORDER BY start_date NULLS FIRST, school_name`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	var out []Education
	for rows.Next() {
		var e Education
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.SchoolName, &e.Degree, &e.FieldOfStudy, &e.Start, &e.End, &e.GPA); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------
// Experience
// ---------------------------------------------------------------------

// CreateExperience inserts an experience entry.
func (db *DB) CreateExperience(ctx context.Context, e *Experience) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.q.QueryRow(ctx,
		`INSERT INTO experiences (resume_id, job_name, company, location, start_date, end_date, is_working_currently, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		e.ResumeID, e.JobName, e.Company, e.Location, e.Start, e.End, e.IsWorkingCurrently, e.Description,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create experience: %w", err)
	}
	return id, nil
}

// UpdateExperience overwrites an experience entry belonging to e.ResumeID.
func (db *DB) UpdateExperience(ctx context.Context, e *Experience) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE experiences SET job_name = $3, company = $4, location = $5, start_date = $6, end_date = $7,
		        is_working_currently = $8, description = $9
		 WHERE id = $1 AND resume_id = $2`,
		e.ID, e.ResumeID, e.JobName, e.Company, e.Location, e.Start, e.End, e.IsWorkingCurrently, e.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update experience: %w", err)
	}
	return affectedOne(tag, "experience", e.ID)
}

// DeleteExperience removes an experience entry belonging to resumeID.
func (db *DB) DeleteExperience(ctx context.Context, resumeID, id uuid.UUID) error {
	tag, err := db.q.Exec(ctx, `DELETE FROM experiences WHERE id = $1 AND resume_id = $2`, id, resumeID)
	if err != nil {
		return fmt.Errorf("failed to delete experience: %w", err)
	}
	return affectedOne(tag, "experience", id)
}

// ListExperiences returns a resume's experience, most recent first.
func (db *DB) ListExperiences(ctx context.Context, resumeID uuid.UUID) ([]Experience, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, resume_id, job_name, company, location, start_date, end_date, is_working_currently, description
		 FROM experiences WHERE resume_id = $1 ORDER BY start_date DESC NULLS LAST, company`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	defer rows.Close()

	var out []Experience
	for rows.Next() {
		var e Experience
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.JobName, &e.Company, &e.Location, &e.Start, &e.End, &e.IsWorkingCurrently, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------
// Skills
// ---------------------------------------------------------------------

// CreateSkill inserts a skill.
func (db *DB) CreateSkill(ctx context.Context, s *Skill) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.q.QueryRow(ctx,
		`INSERT INTO skills (resume_id, name, proficiency) VALUES ($1, $2, $3) RETURNING id`,
		s.ResumeID, s.Name, s.Proficiency,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create skill: %w", err)
	}
	return id, nil
}

// UpdateSkill overwrites a skill belonging to s.ResumeID.
func (db *DB) UpdateSkill(ctx context.Context, s *Skill) error {
	tag, err := db.q.Exec(ctx,
		`UPDATE skills SET name = $3, proficiency = $4 WHERE id = $1 AND resume_id = $2`,
		s.ID, s.ResumeID, s.Name, s.Proficiency,
	)
	if err != nil {
		return fmt.Errorf("failed to update skill: %w", err)
	}
	return affectedOne(tag, "skill", s.ID)
}

// DeleteSkill removes a skill belonging to resumeID.
func (db *DB) DeleteSkill(ctx context.Context, resumeID, id uuid.UUID) error {
	tag, err := db.q.Exec(ctx, `DELETE FROM skills WHERE id = $1 AND resume_id = $2`, id, resumeID)
	if err != nil {
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	return affectedOne(tag, "skill", id)
}

// ListSkills returns a resume's skills by name.
func (db *DB) ListSkills(ctx context.Context, resumeID uuid.UUID) ([]Skill, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, resume_id, name, proficiency FROM skills WHERE resume_id = $1 ORDER BY name`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var out []Skill
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.ResumeID, &s.Name, &s.Proficiency); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
