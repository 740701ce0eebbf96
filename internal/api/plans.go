package api

import (
	"net/http"
	"strconv"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/service"
)

type planEntryRequest struct {
	RecipeID int64   `json:"recipe_id"`
	Servings float64 `json:"servings"`
	MealTime string  `json:"meal_time"`
}

type savePlanRequest struct {
	Entries []planEntryRequest `json:"entries"`
}

type shoppingListResponse struct {
	Success bool                  `json:"success"`
	Items   []models.ShoppingItem `json:"items"`
}

func recomputeRequested(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("recompute"))
	return v
}

func (s *Server) handleSavePlan(w http.ResponseWriter, r *http.Request, user *models.User) {
	date, ok := s.pathDate(w, r)
	if !ok {
		return
	}

	var req savePlanRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	entries := make([]service.PlanEntryInput, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = service.PlanEntryInput{
			RecipeID: e.RecipeID,
			Servings: e.Servings,
			MealTime: models.MealTime(e.MealTime),
		}
	}

	plan, err := s.svc.SavePlan(r.Context(), user.ID, date, entries)
	if err != nil {
		s.respondServiceError(w, r, err, "save meal plan")
		return
	}
	s.respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request, user *models.User) {
	date, ok := s.pathDate(w, r)
	if !ok {
		return
	}

	plan, err := s.svc.GetPlan(r.Context(), user.ID, date, recomputeRequested(r))
	if err != nil {
		s.respondServiceError(w, r, err, "get meal plan")
		return
	}
	s.respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleWeekPlans(w http.ResponseWriter, r *http.Request, user *models.User) {
	date, ok := s.optionalDate(w, r)
	if !ok {
		return
	}

	plans, err := s.svc.WeekPlans(r.Context(), user.ID, date, recomputeRequested(r))
	if err != nil {
		s.respondServiceError(w, r, err, "list meal plans")
		return
	}
	if plans == nil {
		plans = []*models.MealPlan{}
	}
	s.respondJSON(w, http.StatusOK, plans)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request, user *models.User) {
	date, ok := s.pathDate(w, r)
	if !ok {
		return
	}

	if err := s.svc.DeletePlan(r.Context(), user.ID, date); err != nil {
		s.respondServiceError(w, r, err, "delete meal plan")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleShoppingList aggregates the ingredients of every plan in the week
// containing ?date. Storage failures are reported with their message and no
// partial list.
func (s *Server) handleShoppingList(w http.ResponseWriter, r *http.Request, user *models.User) {
	date, ok := s.requireDate(w, r)
	if !ok {
		return
	}

	items, err := s.svc.ShoppingList(r.Context(), user.ID, date)
	if err != nil {
		s.logEntry(r).WithError(err).Error("failed to build shopping list")
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []models.ShoppingItem{}
	}

	s.respondJSON(w, http.StatusOK, shoppingListResponse{Success: true, Items: items})
}
