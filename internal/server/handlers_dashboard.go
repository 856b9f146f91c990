package server

import (
	"net/http"

	"github.com/jonathan/nextstep/internal/types"
)

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := s.services.Dashboards.Summary(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// handleEditDashboard applies a direct edit of total_xp and/or level.
func (s *Server) handleEditDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.DashboardEditRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.services.Dashboards.Edit(r.Context(), userID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleRecalculateDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	dashboard, err := s.services.Dashboards.Recalculate(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, dashboard)
}

// ---------------------------------------------------------------------
// Achievements
// ---------------------------------------------------------------------

func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	achievements, err := s.services.Dashboards.ListAchievements(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	listResponse(w, "achievements", achievements)
}

func (s *Server) handleAddAchievement(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.AchievementRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.services.Dashboards.AddAchievement(r.Context(), userID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, result)
}

func (s *Server) handleRemoveAchievement(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	dashboard, err := s.services.Dashboards.RemoveAchievement(r.Context(), userID, id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"dashboard": dashboard})
}

// ---------------------------------------------------------------------
// Finance goals
// ---------------------------------------------------------------------

func (s *Server) handleListFinanceGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	goals, err := s.services.Dashboards.ListFinanceGoals(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	listResponse(w, "finance_goals", goals)
}

func (s *Server) handleCreateFinanceGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.FinanceGoalRequest
	if !s.decode(w, r, &req) {
		return
	}

	goal, err := s.services.Dashboards.CreateFinanceGoal(r.Context(), userID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, goal)
}

func (s *Server) handleUpdateFinanceGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req types.FinanceGoalRequest
	if !s.decode(w, r, &req) {
		return
	}

	goal, err := s.services.Dashboards.UpdateFinanceGoal(r.Context(), userID, id, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteFinanceGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.services.Dashboards.DeleteFinanceGoal(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------
// Applied jobs
// ---------------------------------------------------------------------

func (s *Server) handleListAppliedJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	applied, err := s.services.Dashboards.ListAppliedJobs(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	listResponse(w, "applied_jobs", applied)
}

func (s *Server) handleCreateAppliedJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.AppliedJobRequest
	if !s.decode(w, r, &req) {
		return
	}

	applied, err := s.services.Dashboards.CreateAppliedJob(r.Context(), userID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, applied)
}

func (s *Server) handleUpdateAppliedJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req types.AppliedJobRequest
	if !s.decode(w, r, &req) {
		return
	}

	applied, err := s.services.Dashboards.UpdateAppliedJob(r.Context(), userID, id, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, applied)
}

func (s *Server) handleDeleteAppliedJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.services.Dashboards.DeleteAppliedJob(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
