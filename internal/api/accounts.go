package api

import (
	"net/http"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/service"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name       *string `json:"name"`
	Image      *string `json:"image"`
	TelegramID *int64  `json:"telegram_id"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, token, err := s.svc.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		s.respondServiceError(w, r, err, "register user")
		return
	}

	s.respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, token, err := s.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondServiceError(w, r, err, "log in")
		return
	}

	s.respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request, user *models.User) {
	s.respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request, user *models.User) {
	var req updateProfileRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.svc.UpdateProfile(r.Context(), user.ID, service.ProfileUpdate{
		Name:       req.Name,
		Image:      req.Image,
		TelegramID: req.TelegramID,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "update profile")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}
