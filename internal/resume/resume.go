// Package resume manages a user's single resume and its education, experience
// and skill entries.
package resume

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/types"
)

// MinSkills is the number of skills a resume needs for its skills section to count as done.
const MinSkills = 3

// Completion scores a resume from 0 to 100 in steps of 25: contact details
// (phone and location), at least one education, at least one experience and
// at least MinSkills skills.
func Completion(d *db.ResumeDetails) int {
	if d == nil {
		return 0
	}
	score := 0
	if d.Phone != "" && d.Location != "" {
		score += 25
	}
	if len(d.Educations) > 0 {
		score += 25
	}
	if len(d.Experiences) > 0 {
		score += 25
	}
	if len(d.Skills) >= MinSkills {
		score += 25
	}
	return score
}

// ValidationError reports a rejected resume field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NotFoundError reports an entry that is not on the caller's resume
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Store is the persistence the resume service needs.
type Store interface {
	EnsureResume(ctx context.Context, userID uuid.UUID) (*db.Resume, error)
	GetResumeDetails(ctx context.Context, userID uuid.UUID) (*db.ResumeDetails, error)
	UpdateResume(ctx context.Context, r *db.Resume) error

	CreateEducation(ctx context.Context, e *db.Education) (uuid.UUID, error)
	UpdateEducation(ctx context.Context, e *db.Education) error
	DeleteEducation(ctx context.Context, resumeID, id uuid.UUID) error

	CreateExperience(ctx context.Context, e *db.Experience) (uuid.UUID, error)
	UpdateExperience(ctx context.Context, e *db.Experience) error
	DeleteExperience(ctx context.Context, resumeID, id uuid.UUID) error

	CreateSkill(ctx context.Context, s *db.Skill) (uuid.UUID, error)
	UpdateSkill(ctx context.Context, s *db.Skill) error
	DeleteSkill(ctx context.Context, resumeID, id uuid.UUID) error
}

// Service scopes every resume change to the authenticated user.
type Service struct {
	store Store
}

// NewService creates a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Details is a resume with its entries and completion score.
type Details struct {
	*db.ResumeDetails
	Completion int `json:"completion"`
}

// Get returns the user's resume, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Details, error) {
	if _, err := s.store.EnsureResume(ctx, userID); err != nil {
		return nil, err
	}
	d, err := s.store.GetResumeDetails(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Details{ResumeDetails: d, Completion: Completion(d)}, nil
}

// UpdateContact replaces the resume's contact block.
func (s *Service) UpdateContact(ctx context.Context, userID uuid.UUID, req types.ResumeRequest) (*db.Resume, error) {
	r, err := s.store.EnsureResume(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.Phone, r.Location, r.LinkedIn = req.Phone, req.Location, req.LinkedIn
	if err := s.store.UpdateResume(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func parseRange(start, end string) (*db.Date, *db.Date, error) {
	var s, e *db.Date
	if start != "" {
		d, err := db.ParseDate(start)
		if err != nil {
			return nil, nil, &ValidationError{Field: "start", Message: "must be YYYY-MM-DD"}
		}
		s = &d
	}
	if end != "" {
		d, err := db.ParseDate(end)
		if err != nil {
			return nil, nil, &ValidationError{Field: "end", Message: "must be YYYY-MM-DD"}
		}
		e = &d
	}
	if s != nil && e != nil && e.Before(s.Time) {
		return nil, nil, &ValidationError{Field: "end", Message: "must not be before start"}
	}
	return s, e, nil
}

func notFound(resource string, id uuid.UUID, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}

func (s *Service) education(resumeID uuid.UUID, req types.EducationRequest) (*db.Education, error) {
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if req.GPA != nil && (*req.GPA < 0 || *req.GPA > 5) {
		return nil, &ValidationError{Field: "gpa", Message: "must be between 0 and 5"}
	}
	return &db.Education{
		ResumeID:     resumeID,
		SchoolName:   req.SchoolName,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		Start:        start,
		End:          end,
		GPA:          req.GPA,
	}, nil
}

// AddEducation appends an education entry.
func (s *Service) AddEducation(ctx context.Context, userID uuid.UUID, req types.EducationRequest) (*db.Education, error) {
	r, err := s.store.EnsureResume(ctx, userID)
	if err != nil {
		return nil, err
	}
	e, err := s.education(r.ID, req)
	if err != nil {
		return nil, err
	}
	if e.ID, err = s.store.CreateEducation(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEducation replaces an education entry.
func (s *Service) UpdateEducation(ctx context.Context, userID, id uuid.UUID, req types.EducationRequest) (*db.Education, error) {
	r, err := s.store.EnsureResume(ctx, userID)
	if err != nil {
		return nil, err
	}
	e, err := s.education(r.ID, req)
	if err != nil {
		return nil, err
	}
	e.ID = id
	if err := s.store.UpdateEducation(ctx, e); err != nil {
		return nil, notFound("education", id, err)
	}
	return e, nil
}

// DeleteEducation removes an education entry.
func (s *Service) DeleteEducation(ctx context.Context, userID, id uuid.UUID) error {
	r, err := s.store.EnsureResume(ctx, userID)
	if err != nil {
		return err
	}
	return notFound("education", id, s.store.DeleteEducation(ctx, r.ID, id))
}

func (s *Service) experience(resumeID uuid.UUID, req types.ExperienceRequest) (*db.Experience, error) {
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if req.IsWorkingCurrently {
		end = nil
	}
	return &db.Experience{
		ResumeID:           resumeID,
		JobName:            req.JobName,
		Company:            req.Company,
		Location:           req.Location,
		Start:              start,
		End:                end,
		IsWorkingCurrently: req.IsWorkingCurrently,
		Description:        req.Description,
	}, nil
}

// AddExperience appends a work history entry. Current positions have no end date.
func (s *Service) AddExperience(ctx context.Context, userID uuid.UUID, req types.ExperienceRequest) (*db.Experience, error) {
	r, err := s.store.EnsureResume(ctx, userID)
	if err != nil {
		return nil, err
	}
	e, err := s.experience(r.ID, req)
	if err != nil {
		return nil, err
	}
	if e.ID, err = s.store.CreateExperience(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateExperience replaces a work history entry.
func (s *Service) UpdateExperience(ctx context.Context, userID, id uuid.UUID, req types.ExperienceRequest) (*db.Experience, error) {
	r, err := s.store.EnsureResume(ctx, userID)
	if err != nil {
		return nil, err
	}
	e, err := s.experience(r.ID, req)
	if err != nil {
		return nil, err
	}
	e.ID = id
	if err := s.store.UpdateExperience(ctx, e); err != nil {
		return nil, notFound("experience", id, err)
	}
	return e, nil
}

// DeleteExperience removes a work history entry.
func (s *Service) DeleteExperience(ctx context.Context, userID, id uuid.UUID) error {
	r, err := s.store.EnsureResume(ctx, userID)
	if err != nil {
		return err
	}
	return notFound("experience", id, s.store.DeleteExperience(ctx, r.ID, id))
}

// AddSkill appends a skill.
func (s *Service) AddSkill(ctx context.Context, userID uuid.UUID, req types.SkillRequest) (*db.Skill, error) {
	r, err := s.store.EnsureResume(ctx, userID)
	if err != nil {
		return nil, err
	}
	sk := &db.Skill{ResumeID: r.ID, Name: req.Name, Proficiency: req.Proficiency}
	if sk.ID, err = s.store.CreateSkill(ctx, sk); err != nil {
		return nil, err
	}
	return sk, nil
}

// UpdateSkill replaces a skill.
func (s *Service) UpdateSkill(ctx context.Context, userID, id uuid.UUID, req types.SkillRequest) (*db.Skill, error) {
	r, err := s.store.EnsureResume(ctx, userID)
	if err != nil {
		return nil, err
	}
	sk := &db.Skill{ID: id, ResumeID: r.ID, Name: req.Name, Proficiency: req.Proficiency}
	if err := s.store.UpdateSkill(ctx, sk); err != nil {
		return nil, notFound("skill", id, err)
	}
	return sk, nil
}

// DeleteSkill removes a skill.
func (s *Service) DeleteSkill(ctx context.Context, userID, id uuid.UUID) error {
	r, err := s.store.EnsureResume(ctx, userID)
	if err != nil {
		return err
	}
	return notFound("skill", id, s.store.DeleteSkill(ctx, r.ID, id))
}
