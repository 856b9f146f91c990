package jobs

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/types"
)

const (
	featuredLimit = 5
	recentLimit   = 10
)

// Store is the persistence the job board needs.
type Store interface {
	CreateJob(ctx context.Context, j *db.Job) (*db.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	ListJobs(ctx context.Context, filters db.JobFilters) ([]db.Job, error)
	SetJobActive(ctx context.Context, id uuid.UUID, active bool) error

	CreateApplication(ctx context.Context, a *db.JobApplication) (*db.JobApplication, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*db.JobApplication, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID, status string) ([]db.JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteApplication(ctx context.Context, applicantID, id uuid.UUID) error
}

// Service implements job listings and applications.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a Service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

func (s *Service) views(jobs []db.Job) []View {
	now := s.now()
	out := make([]View, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewView(j, now))
	}
	return out
}

// List returns active jobs matching filters.
func (s *Service) List(ctx context.Context, filters db.JobFilters) ([]View, error) {
	jobs, err := s.store.ListJobs(ctx, filters)
	if err != nil {
		return nil, err
	}
	return s.views(jobs), nil
}

// Featured returns the newest featured jobs.
func (s *Service) Featured(ctx context.Context) ([]View, error) {
	featured := true
	return s.List(ctx, db.JobFilters{Featured: &featured, Limit: featuredLimit})
}

// Recent returns the most recently posted jobs.
func (s *Service) Recent(ctx context.Context) ([]View, error) {
	return s.List(ctx, db.JobFilters{Limit: recentLimit})
}

// activeJob loads a job, treating deactivated listings as missing.
func (s *Service) activeJob(ctx context.Context, id uuid.UUID) (*db.Job, error) {
	j, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if j == nil || !j.IsActive {
		return nil, &NotFoundError{Resource: "job", ID: id}
	}
	return j, nil
}

// Get returns one active job.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	j, err := s.activeJob(ctx, id)
	if err != nil {
		return nil, err
	}
	v := NewView(*j, s.now())
	return &v, nil
}

// Create posts a job on behalf of employerID.
func (s *Service) Create(ctx context.Context, employerID uuid.UUID, req types.CreateJobRequest) (*View, error) {
	if !slices.Contains(JobTypes, req.JobType) {
		return nil, &ValidationError{Field: "job_type", Message: "unknown job type"}
	}
	if !slices.Contains(Schedules, req.Schedule) {
		return nil, &ValidationError{Field: "schedule", Message: "unknown schedule"}
	}
	if req.HourlyRateMinCents <= 0 {
		return nil, &ValidationError{Field: "hourly_rate_min_cents", Message: "must be positive"}
	}
	if req.HourlyRateMaxCents < req.HourlyRateMinCents {
		return nil, &ValidationError{Field: "hourly_rate_max_cents", Message: "must not be below the minimum"}
	}

	j, err := s.store.CreateJob(ctx, &db.Job{
		EmployerID:         employerID,
		Title:              req.Title,
		Company:            req.Company,
		Location:           req.Location,
		HourlyRateMinCents: req.HourlyRateMinCents,
		HourlyRateMaxCents: req.HourlyRateMaxCents,
		JobType:            req.JobType,
		Schedule:           req.Schedule,
		Description:        req.Description,
		Requirements:       req.Requirements,
		Tags:               req.Tags,
		Rating:             4.0,
		Featured:           req.Featured,
		IsActive:           true,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("job posted", "job_id", j.ID, "employer_id", employerID, "title", j.Title)
	v := NewView(*j, s.now())
	return &v, nil
}

// Deactivate hides a job from listings. Only its employer may do so.
func (s *Service) Deactivate(ctx context.Context, employerID, jobID uuid.UUID) error {
	j, err := s.activeJob(ctx, jobID)
	if err != nil {
		return err
	}
	if j.EmployerID != employerID {
		return &ForbiddenError{Message: "only the employer can close this job"}
	}
	return s.store.SetJobActive(ctx, jobID, false)
}

// Apply submits applicantID's application to an active job.
// A second application to the same job is a ConflictError.
func (s *Service) Apply(ctx context.Context, applicantID, jobID uuid.UUID, req types.ApplyRequest) (*db.JobApplication, error) {
	j, err := s.activeJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.EmployerID == applicantID {
		return nil, &ValidationError{Field: "job_id", Message: "cannot apply to your own job"}
	}

	a, err := s.store.CreateApplication(ctx, &db.JobApplication{
		JobID:              jobID,
		ApplicantID:        applicantID,
		CoverLetter:        req.CoverLetter,
		Availability:       req.Availability,
		WhyInterested:      req.WhyInterested,
		RelevantExperience: req.RelevantExperience,
		Questions:          req.Questions,
		Status:             StatusSubmitted,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &ConflictError{Message: "you have already applied to this job"}
		}
		return nil, err
	}
	s.logger.Info("application submitted", "application_id", a.ID, "job_id", jobID)
	return a, nil
}

// ListApplications returns applicantID's applications, optionally filtered by status.
func (s *Service) ListApplications(ctx context.Context, applicantID uuid.UUID, status string) ([]db.JobApplication, error) {
	if status != "" && !slices.Contains(ApplicationStatuses, status) {
		return nil, &ValidationError{Field: "status", Message: "unknown status"}
	}
	return s.store.ListApplicationsByApplicant(ctx, applicantID, status)
}

// GetApplication returns one of applicantID's applications.
func (s *Service) GetApplication(ctx context.Context, applicantID, id uuid.UUID) (*db.JobApplication, error) {
	a, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || a.ApplicantID != applicantID {
		return nil, &NotFoundError{Resource: "application", ID: id}
	}
	return a, nil
}

// WithdrawApplication deletes one of applicantID's applications.
func (s *Service) WithdrawApplication(ctx context.Context, applicantID, id uuid.UUID) error {
	if err := s.store.DeleteApplication(ctx, applicantID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &NotFoundError{Resource: "application", ID: id}
		}
		return err
	}
	return nil
}

// UpdateApplicationStatus moves an application to status. Only the employer
// who posted the job may do so.
func (s *Service) UpdateApplicationStatus(ctx context.Context, employerID, id uuid.UUID, status string) (*db.JobApplication, error) {
	if !slices.Contains(ApplicationStatuses, status) {
		return nil, &ValidationError{Field: "status", Message: "unknown status"}
	}

	a, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &NotFoundError{Resource: "application", ID: id}
	}
	j, err := s.store.GetJob(ctx, a.JobID)
	if err != nil {
		return nil, err
	}
	if j == nil || j.EmployerID != employerID {
		return nil, &ForbiddenError{Message: "only the employer can update an application"}
	}

	if err := s.store.UpdateApplicationStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status
	a.UpdatedAt = s.now()
	s.logger.Info("application status updated", "application_id", id, "status", status)
	return a, nil
}
