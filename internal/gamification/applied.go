package gamification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/types"
)

func validAppliedStatus(status string) bool {
	switch status {
	case db.AppliedStatusApplied, db.AppliedStatusInterview, db.AppliedStatusOffer, db.AppliedStatusRejected:
		return true
	}
	return false
}

func appliedJobFromRequest(dashboardID uuid.UUID, req types.AppliedJobRequest) (*db.AppliedJob, error) {
	status := req.Status
	if status == "" {
		status = db.AppliedStatusApplied
	}
	if !validAppliedStatus(status) {
		return nil, &ValidationError{Field: "status", Message: "must be one of applied, interview, offer, rejected"}
	}
	j := &db.AppliedJob{
		DashboardID: dashboardID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Status:      status,
	}
	if req.AppliedOn != "" {
		on, err := db.ParseDate(req.AppliedOn)
		if err != nil {
			return nil, &ValidationError{Field: "applied_on", Message: "must be YYYY-MM-DD"}
		}
		j.AppliedOn = on
	}
	return j, nil
}

// ListAppliedJobs returns the applications the user is tracking.
func (s *Service) ListAppliedJobs(ctx context.Context, userID uuid.UUID) ([]db.AppliedJob, error) {
	d, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListAppliedJobs(ctx, d.ID)
}

// CreateAppliedJob starts tracking an application. Status defaults to applied and the date to today.
func (s *Service) CreateAppliedJob(ctx context.Context, userID uuid.UUID, req types.AppliedJobRequest) (*db.AppliedJob, error) {
	d, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	j, err := appliedJobFromRequest(d.ID, req)
	if err != nil {
		return nil, err
	}
	return s.store.CreateAppliedJob(ctx, j)
}

// UpdateAppliedJob replaces a tracked application. An omitted date keeps the stored one.
func (s *Service) UpdateAppliedJob(ctx context.Context, userID, id uuid.UUID, req types.AppliedJobRequest) (*db.AppliedJob, error) {
	d, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	j, err := appliedJobFromRequest(d.ID, req)
	if err != nil {
		return nil, err
	}
	j.ID = id
	if err := s.store.UpdateAppliedJob(ctx, j); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, &NotFoundError{Resource: "applied job", ID: id}
		}
		return nil, err
	}
	return j, nil
}

// DeleteAppliedJob stops tracking an application.
func (s *Service) DeleteAppliedJob(ctx context.Context, userID, id uuid.UUID) error {
	d, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteAppliedJob(ctx, d.ID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return &NotFoundError{Resource: "applied job", ID: id}
		}
		return err
	}
	return nil
}
