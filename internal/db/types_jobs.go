package db

import (
	"time"

	"github.com/google/uuid"
)

// Job is a listing posted by an employer. Hourly rates are in cents.
type Job struct {
	ID                 uuid.UUID `json:"id"`
	EmployerID         uuid.UUID `json:"employer_id"`
	Title              string    `json:"title"`
	Company            string    `json:"company"`
	Location           string    `json:"location"`
	HourlyRateMinCents int64     `json:"hourly_rate_min_cents"`
	HourlyRateMaxCents int64     `json:"hourly_rate_max_cents"`
	JobType            string    `json:"job_type"`
	Schedule           string    `json:"schedule"`
	Description        string    `json:"description"`
	Requirements       []string  `json:"requirements"`
	Tags               []string  `json:"tags"`
	Rating             float64   `json:"rating"`
	ReviewCount        int       `json:"review_count"`
	Featured           bool      `json:"featured"`
	IsActive           bool      `json:"is_active"`
	PostedAt           time.Time `json:"posted_at"`
}

// JobFilters holds optional filters for listing jobs.
// Zero values mean "no filter". OrderBy must already be a whitelisted SQL expression.
type JobFilters struct {
	JobType        string
	Schedule       string
	Location       string
	Featured       *bool
	Search         string
	MinRateFromCts *int64
	MinRateToCts   *int64
	OrderBy        string
	Limit          int
	Offset         int
}

// JobApplication is a student's application to a listed job.
type JobApplication struct {
	ID                 uuid.UUID `json:"id"`
	JobID              uuid.UUID `json:"job_id"`
	ApplicantID        uuid.UUID `json:"applicant_id"`
	CoverLetter        string    `json:"cover_letter"`
	Availability       []string  `json:"availability"`
	WhyInterested      string    `json:"why_interested"`
	RelevantExperience string    `json:"relevant_experience"`
	Questions          string    `json:"questions"`
	Status             string    `json:"status"`
	AppliedAt          time.Time `json:"applied_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
