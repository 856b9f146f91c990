package server

import (
	"net/http"

	"github.com/jonathan/nextstep/internal/jobs"
	"github.com/jonathan/nextstep/internal/types"
)

// ---------------------------------------------------------------------
// Job listings
// ---------------------------------------------------------------------

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	filters, err := jobs.ParseFilters(r.URL.Query())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	views, err := s.services.Jobs.List(r.Context(), filters)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":   nonNil(views),
		"count":  len(views),
		"limit":  filters.Limit,
		"offset": filters.Offset,
	})
}

func (s *Server) handleFeaturedJobs(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Jobs.Featured(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	listResponse(w, "jobs", views)
}

func (s *Server) handleRecentJobs(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Jobs.Recent(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	listResponse(w, "jobs", views)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	view, err := s.services.Jobs.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, view)
}

// handleCreateJob lists a job with the caller as employer.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.CreateJobRequest
	if !s.decode(w, r, &req) {
		return
	}

	view, err := s.services.Jobs.Create(r.Context(), userID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, view)
}

// handleDeactivateJob closes a listing. Only its employer may do so.
func (s *Server) handleDeactivateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.services.Jobs.Deactivate(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------
// Applications
// ---------------------------------------------------------------------

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	jobID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req types.ApplyRequest
	if !s.decode(w, r, &req) {
		return
	}

	app, err := s.services.Jobs.Apply(r.Context(), userID, jobID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.logger.Info("application submitted", "job_id", jobID, "applicant_id", userID)
	jsonResponse(w, http.StatusCreated, app)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	apps, err := s.services.Jobs.ListApplications(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	listResponse(w, "applications", apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	app, err := s.services.Jobs.GetApplication(r.Context(), userID, id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleWithdrawApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.services.Jobs.WithdrawApplication(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateApplicationStatus is called by the employer who posted the job.
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req types.ApplicationStatusRequest
	if !s.decode(w, r, &req) {
		return
	}

	app, err := s.services.Jobs.UpdateApplicationStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, app)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
