package api

import (
	"net/http"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/repository"
	"github.com/Kerhoff/mizan/internal/service"
)

// ---------------------------------------------------------------------------
// Ingredients
// ---------------------------------------------------------------------------

type createIngredientRequest struct {
	Name        string        `json:"name"`
	ServingSize float64       `json:"serving_size"`
	ServingUnit string        `json:"serving_unit"`
	Macros      models.Macros `json:"macros"`
	Verified    bool          `json:"verified"`
}

func catalogFilters(r *http.Request) repository.CatalogFilters {
	q := r.URL.Query()
	return repository.CatalogFilters{
		Query:  q.Get("q"),
		Tag:    q.Get("tag"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
}

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request, _ *models.User) {
	ingredients, err := s.svc.ListIngredients(r.Context(), catalogFilters(r))
	if err != nil {
		s.respondServiceError(w, r, err, "list ingredients")
		return
	}
	if ingredients == nil {
		ingredients = []*models.Ingredient{}
	}
	s.respondJSON(w, http.StatusOK, ingredients)
}

func (s *Server) handleGetIngredient(w http.ResponseWriter, r *http.Request, _ *models.User) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid ingredient id")
		return
	}

	ingredient, err := s.svc.GetIngredient(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "get ingredient")
		return
	}
	s.respondJSON(w, http.StatusOK, ingredient)
}

func (s *Server) handleCreateIngredient(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req createIngredientRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateIngredient(r.Context(), user, &models.Ingredient{
		Name:        req.Name,
		ServingSize: req.ServingSize,
		ServingUnit: req.ServingUnit,
		Macros:      req.Macros,
		Verified:    req.Verified,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "create ingredient")
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteIngredient(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid ingredient id")
		return
	}

	if err := s.svc.DeleteIngredient(r.Context(), user, id); err != nil {
		s.respondServiceError(w, r, err, "delete ingredient")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---------------------------------------------------------------------------
// Recipes
// ---------------------------------------------------------------------------

type recipeRequest struct {
	Name         string                    `json:"name"`
	Description  string                    `json:"description"`
	Servings     float64                   `json:"servings"`
	Instructions string                    `json:"instructions"`
	Tags         []string                  `json:"tags"`
	Ingredients  []models.RecipeIngredient `json:"ingredients"`
}

func (req recipeRequest) input() service.RecipeInput {
	return service.RecipeInput{
		Name:         req.Name,
		Description:  req.Description,
		Servings:     req.Servings,
		Instructions: req.Instructions,
		Tags:         req.Tags,
		Ingredients:  req.Ingredients,
	}
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request, _ *models.User) {
	recipes, err := s.svc.ListRecipes(r.Context(), catalogFilters(r))
	if err != nil {
		s.respondServiceError(w, r, err, "list recipes")
		return
	}
	if recipes == nil {
		recipes = []*models.Recipe{}
	}
	s.respondJSON(w, http.StatusOK, recipes)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request, _ *models.User) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	recipe, err := s.svc.GetRecipe(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err, "get recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req recipeRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateRecipe(r.Context(), user, req.input())
	if err != nil {
		s.respondServiceError(w, r, err, "create recipe")
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	var req recipeRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.svc.UpdateRecipe(r.Context(), user, id, req.input())
	if err != nil {
		s.respondServiceError(w, r, err, "update recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request, user *models.User) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	if err := s.svc.DeleteRecipe(r.Context(), user, id); err != nil {
		s.respondServiceError(w, r, err, "delete recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
