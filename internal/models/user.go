// Package models contains the domain structures shared between the
// business logic and the storage layer.
package models

import "time"

// User represents a registered account. The password hash never leaves
// the process; UID is the stable external-facing identifier.
type User struct {
	ID           int64      `json:"id"`
	UID          string     `json:"uid"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Bio          *string    `json:"bio,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
