package models

import "time"

// SessionToken is an issued bearer credential bound to one user.
//
// A token is valid only while a matching row exists and ExpiresAt is in
// the future. Logout deletes the row, which is what actually revokes the
// token; the signature alone stays verifiable until natural expiry.
type SessionToken struct {
	ID        int64
	Token     string    // the signed token string handed to the client
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
