package server

import (
	"net/http"

	"github.com/jonathan/nextstep/internal/types"
)

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req types.RatingRequest
	if !s.decode(w, r, &req) {
		return
	}

	rating, err := s.services.Ratings.Rate(r.Context(), userID, req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, rating)
}

// handleDeleteRating removes a rating written by the caller.
func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.services.Ratings.Delete(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	profile, err := s.services.Ratings.Profile(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	received, err := s.services.Ratings.ListReceived(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	listResponse(w, "ratings", received)
}
