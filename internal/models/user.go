package models

import "time"

// User represents an account in the system
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Image        string    `json:"image" db:"image"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	TelegramID   *int64    `json:"telegram_id" db:"telegram_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the best display name for the user
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// IsLinked returns true if the account is bound to a Telegram user
func (u *User) IsLinked() bool {
	return u.TelegramID != nil
}
