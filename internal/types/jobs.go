package types

// CreateJobRequest is posted by an employer to list a job. Rates are in cents.
type CreateJobRequest struct {
	Title              string   `json:"title" validate:"required,max=200"`
	Company            string   `json:"company" validate:"required,max=200"`
	Location           string   `json:"location" validate:"required,max=200"`
	HourlyRateMinCents int64    `json:"hourly_rate_min_cents" validate:"required,gt=0"`
	HourlyRateMaxCents int64    `json:"hourly_rate_max_cents" validate:"required,gtefield=HourlyRateMinCents"`
	JobType            string   `json:"job_type" validate:"required,oneof=part-time full-time seasonal gig internship"`
	Schedule           string   `json:"schedule" validate:"required,oneof=part-time full-time flexible weekends evenings summer"`
	Description        string   `json:"description" validate:"required"`
	Requirements       []string `json:"requirements" validate:"dive,required"`
	Tags               []string `json:"tags" validate:"dive,required,max=50"`
	Featured           bool     `json:"featured"`
}

// ApplyRequest is a student's application to a job.
type ApplyRequest struct {
	CoverLetter        string   `json:"cover_letter" validate:"required"`
	Availability       []string `json:"availability" validate:"dive,required"`
	WhyInterested      string   `json:"why_interested" validate:"required"`
	RelevantExperience string   `json:"relevant_experience" validate:"required"`
	Questions          string   `json:"questions"`
}

// ApplicationStatusRequest moves an application through the hiring pipeline.
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=submitted under_review interview_scheduled interviewed hired rejected"`
}

// RatingRequest scores another user in one of their roles.
type RatingRequest struct {
	RateeID string `json:"ratee_id" validate:"required,uuid"`
	ForRole string `json:"for_role" validate:"required,oneof=employer worker"`
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}
