package api

import (
	"net/http"
	"time"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/service"
)

type logMealRequest struct {
	Name     string        `json:"name"`
	MealType string        `json:"meal_type"`
	Macros   models.Macros `json:"macros"`
	EatenAt  string        `json:"eaten_at"`
}

func (s *Server) handleLogMeal(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req logMealRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	in := service.MealInput{
		Name:     req.Name,
		MealType: models.MealType(req.MealType),
		Macros:   req.Macros,
	}
	if req.EatenAt != "" {
		t, err := time.Parse(time.RFC3339, req.EatenAt)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "eaten_at must be RFC 3339 format")
			return
		}
		in.EatenAt = t
	}

	meal, err := s.svc.LogMeal(r.Context(), user.ID, in)
	if err != nil {
		s.respondServiceError(w, r, err, "log meal")
		return
	}
	s.respondJSON(w, http.StatusCreated, meal)
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request, user *models.User) {
	date, ok := s.optionalDate(w, r)
	if !ok {
		return
	}

	meals, err := s.svc.ListMeals(r.Context(), user.ID, date)
	if err != nil {
		s.respondServiceError(w, r, err, "list meals")
		return
	}
	if meals == nil {
		meals = []*models.Meal{}
	}
	s.respondJSON(w, http.StatusOK, meals)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid meal id")
		return
	}

	if err := s.svc.DeleteMeal(r.Context(), user.ID, id); err != nil {
		s.respondServiceError(w, r, err, "delete meal")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, user *models.User) {
	date, ok := s.optionalDate(w, r)
	if !ok {
		return
	}

	summary, err := s.svc.Summary(r.Context(), user.ID, date)
	if err != nil {
		s.respondServiceError(w, r, err, "build daily summary")
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}
