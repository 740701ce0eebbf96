package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/metrics"
	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
	"github.com/Kerhoff/mizan/internal/service"
)

// Server provides the HTTP API.
type Server struct {
	svc    *service.Service
	logger *logrus.Logger
	mux    *http.ServeMux
	now    func() time.Time
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux(), now: time.Now}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.mux)
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// Accounts
	s.handle("POST /api/auth/register", s.handleRegister)
	s.handle("POST /api/auth/login", s.handleLogin)
	s.handle("GET /api/me", s.authed(s.handleGetMe))
	s.handle("PUT /api/me", s.authed(s.handleUpdateMe))

	// Ingredient catalog
	s.handle("GET /api/ingredients", s.authed(s.handleListIngredients))
	s.handle("GET /api/ingredients/{id}", s.authed(s.handleGetIngredient))
	s.handle("POST /api/ingredients", s.authed(s.handleCreateIngredient))
	s.handle("DELETE /api/ingredients/{id}", s.authed(s.handleDeleteIngredient))

	// Recipe catalog
	s.handle("GET /api/recipes", s.authed(s.handleListRecipes))
	s.handle("GET /api/recipes/{id}", s.authed(s.handleGetRecipe))
	s.handle("POST /api/recipes", s.authed(s.handleCreateRecipe))
	s.handle("PUT /api/recipes/{id}", s.authed(s.handleUpdateRecipe))
	s.handle("DELETE /api/recipes/{id}", s.authed(s.handleDeleteRecipe))

	// Meal log
	s.handle("GET /api/meals", s.authed(s.handleListMeals))
	s.handle("POST /api/meals", s.authed(s.handleLogMeal))
	s.handle("DELETE /api/meals/{id}", s.authed(s.handleDeleteMeal))
	s.handle("GET /api/summary", s.authed(s.handleSummary))

	// Meal plans & shopping list
	s.handle("GET /api/plans", s.authed(s.handleWeekPlans))
	s.handle("GET /api/plans/{date}", s.authed(s.handleGetPlan))
	s.handle("PUT /api/plans/{date}", s.authed(s.handleSavePlan))
	s.handle("DELETE /api/plans/{date}", s.authed(s.handleDeletePlan))
	s.handle("GET /api/shopping-list", s.authed(s.handleShoppingList))

	// Goals
	s.handle("GET /api/goals", s.authed(s.handleGoalHistory))
	s.handle("GET /api/goals/current", s.authed(s.handleCurrentGoal))
	s.handle("POST /api/goals", s.authed(s.handleSetGoal))

	// Suggestions
	s.handle("GET /api/suggestions", s.authed(s.handleGetSuggestions))
	s.handle("POST /api/suggestions/regenerate", s.authed(s.handleRegenerateSuggestions))

	s.handle("GET /healthz", s.handleHealth)
}

// handle registers h under pattern and records Prometheus metrics labelled
// with the pattern.
func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &metrics.StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		h(rec, r)
		metrics.Observe(r.Method, pattern, rec.Status, time.Since(start))
	})
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

type contextKey int

const (
	userKey contextKey = iota
	requestIDKey
)

// withRequestLog assigns a request id and logs every finished request.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		rec := &metrics.StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, reqID)))

		s.logger.WithFields(logrus.Fields{
			"request_id":  reqID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.Status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("HTTP request")
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, user *models.User)

// authed resolves the bearer token before calling h. Requests without a
// valid token get 401.
func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.respondError(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		user, err := s.svc.Authenticate(r.Context(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				s.respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			s.logger.WithError(err).Error("failed to authenticate request")
			s.respondError(w, http.StatusInternalServerError, "failed to authenticate request")
			return
		}

		h(w, r.WithContext(context.WithValue(r.Context(), userKey, user)), user)
	}
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Success: false, Error: message})
}

// respondServiceError maps service sentinels onto status codes. Anything
// unrecognised is logged and reported as a 500 with a generic message.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		s.respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		s.respondError(w, http.StatusForbidden, err.Error())
	default:
		s.logEntry(r).WithError(err).Error("failed to " + action)
		s.respondError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

func (s *Server) logEntry(r *http.Request) *logrus.Entry {
	entry := s.logger.WithField("path", r.URL.Path)
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		entry = entry.WithField("request_id", id)
	}
	return entry
}

// decodeJSON reads the request body into dst and returns an error message on
// failure.  The caller should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// requireDate reads the date query parameter.  It writes an error response
// and returns false when the parameter is absent or malformed.
func (s *Server) requireDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		s.respondError(w, http.StatusBadRequest, "date query parameter is required")
		return time.Time{}, false
	}
	return s.parseDate(w, raw)
}

// optionalDate reads the date query parameter, defaulting to today.
func (s *Server) optionalDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return nutrition.DayStart(s.now().UTC()), true
	}
	return s.parseDate(w, raw)
}

// pathDate reads the {date} path value.
func (s *Server) pathDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	return s.parseDate(w, r.PathValue("date"))
}

func (s *Server) parseDate(w http.ResponseWriter, raw string) (time.Time, bool) {
	date, err := nutrition.ParseDate(raw)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	return date, true
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.Ping(ctx); err != nil {
		s.logger.WithError(err).Warn("health check failed")
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
