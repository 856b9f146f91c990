package server

import (
	"net/http"

	"github.com/jonathan/nextstep/internal/types"
)

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	details, err := s.services.Resumes.Get(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, details)
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.ResumeRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.services.Resumes.UpdateContact(r.Context(), userID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// ---------------------------------------------------------------------
// Education
// ---------------------------------------------------------------------

func (s *Server) handleAddEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.EducationRequest
	if !s.decode(w, r, &req) {
		return
	}

	edu, err := s.services.Resumes.AddEducation(r.Context(), userID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, edu)
}

func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req types.EducationRequest
	if !s.decode(w, r, &req) {
		return
	}

	edu, err := s.services.Resumes.UpdateEducation(r.Context(), userID, id, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, edu)
}

func (s *Server) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.services.Resumes.DeleteEducation(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------
// Experience
// ---------------------------------------------------------------------

func (s *Server) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.ExperienceRequest
	if !s.decode(w, r, &req) {
		return
	}

	exp, err := s.services.Resumes.AddExperience(r.Context(), userID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, exp)
}

func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req types.ExperienceRequest
	if !s.decode(w, r, &req) {
		return
	}

	exp, err := s.services.Resumes.UpdateExperience(r.Context(), userID, id, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, exp)
}

func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.services.Resumes.DeleteExperience(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------
// Skills
// ---------------------------------------------------------------------

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.SkillRequest
	if !s.decode(w, r, &req) {
		return
	}

	skill, err := s.services.Resumes.AddSkill(r.Context(), userID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, skill)
}

func (s *Server) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req types.SkillRequest
	if !s.decode(w, r, &req) {
		return
	}

	skill, err := s.services.Resumes.UpdateSkill(r.Context(), userID, id, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, skill)
}

func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.services.Resumes.DeleteSkill(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
