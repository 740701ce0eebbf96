package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Kerhoff/mizan/internal/auth"
	"github.com/Kerhoff/mizan/internal/models"
)

const minPasswordLength = 8

// ProfileUpdate holds the user-editable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	Name       *string
	Image      *string
	TelegramID *int64
}

// Register creates an account and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	var v validation
	_, mailErr := mail.ParseAddress(email)
	v.check(email != "" && mailErr == nil, "email is not a valid address")
	v.check(len(password) >= minPasswordLength, "password must be at least %d characters", minPasswordLength)
	if err := v.err(); err != nil {
		return nil, "", err
	}

	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to lookup user (email=%s): %w", email, err)
	}
	if existing != nil {
		return nil, "", fmt.Errorf("%w: email %s is already registered", ErrConflict, email)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.Users.Create(ctx, &models.User{Email: email, Name: name, PasswordHash: hash})
	if err != nil {
		return nil, "", fromRepo(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Infof("Registered new user: %s (id=%d)", user.DisplayName(), user.ID)
	return user, token, nil
}

// Login checks credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user %d: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d no longer exists", ErrUnauthorized, id)
	}
	return user, nil
}

// GetUser returns the user with the given id.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user %d: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return user, nil
}

// UpdateProfile applies upd to the user's profile.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Image != nil {
		user.Image = strings.TrimSpace(*upd.Image)
	}
	if upd.TelegramID != nil {
		if *upd.TelegramID == 0 {
			user.TelegramID = nil
		} else {
			id := *upd.TelegramID
			user.TelegramID = &id
		}
	}

	user, err = s.Users.Update(ctx, user)
	if err != nil {
		return nil, fromRepo(err)
	}
	return user, nil
}

// LinkTelegram binds a Telegram account to the user owning the credentials.
func (s *Service) LinkTelegram(ctx context.Context, email, password string, telegramID int64) (*models.User, error) {
	user, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if user.TelegramID != nil && *user.TelegramID == telegramID {
		return user, nil
	}

	user, err = s.UpdateProfile(ctx, user.ID, ProfileUpdate{TelegramID: &telegramID})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Linked telegram account %d to user %d", telegramID, user.ID)
	return user, nil
}

// UserByTelegram returns the account linked to the Telegram user.
func (s *Service) UserByTelegram(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.Users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user (telegram_id=%d): %w", telegramID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: telegram account %d is not linked", ErrNotFound, telegramID)
	}
	return user, nil
}

func (s *Service) checkCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	return user, nil
}
