package models

import "time"

// Goal is one version of a user's target macros. The highest version is current.
type Goal struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Version   int       `json:"version" db:"version"`
	Macros    Macros    `json:"macros"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
