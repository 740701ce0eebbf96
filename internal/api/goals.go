package api

import (
	"net/http"

	"github.com/Kerhoff/mizan/internal/models"
)

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req models.Macros
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	goal, err := s.svc.SetGoal(r.Context(), user.ID, req)
	if err != nil {
		s.respondServiceError(w, r, err, "set goal")
		return
	}
	s.respondJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleCurrentGoal(w http.ResponseWriter, r *http.Request, user *models.User) {
	goal, err := s.svc.CurrentGoal(r.Context(), user.ID)
	if err != nil {
		s.respondServiceError(w, r, err, "get current goal")
		return
	}
	s.respondJSON(w, http.StatusOK, goal)
}

func (s *Server) handleGoalHistory(w http.ResponseWriter, r *http.Request, user *models.User) {
	goals, err := s.svc.GoalHistory(r.Context(), user.ID)
	if err != nil {
		s.respondServiceError(w, r, err, "list goals")
		return
	}
	if goals == nil {
		goals = []*models.Goal{}
	}
	s.respondJSON(w, http.StatusOK, goals)
}

// ---------------------------------------------------------------------------
// Suggestions
// ---------------------------------------------------------------------------

func (s *Server) handleGetSuggestions(w http.ResponseWriter, r *http.Request, user *models.User) {
	date, ok := s.optionalDate(w, r)
	if !ok {
		return
	}

	sug, err := s.svc.DailySuggestions(r.Context(), user.ID, date)
	if err != nil {
		s.respondServiceError(w, r, err, "get suggestions")
		return
	}
	s.respondJSON(w, http.StatusOK, sug)
}

func (s *Server) handleRegenerateSuggestions(w http.ResponseWriter, r *http.Request, user *models.User) {
	date, ok := s.optionalDate(w, r)
	if !ok {
		return
	}

	sug, err := s.svc.RegenerateSuggestions(r.Context(), user.ID, date)
	if err != nil {
		s.respondServiceError(w, r, err, "regenerate suggestions")
		return
	}
	s.respondJSON(w, http.StatusOK, sug)
}
