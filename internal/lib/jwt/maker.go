// Package jwt implements generation and parsing of the signed session
// tokens handed out at login.
//
// Maker defines the interface for creating and verifying tokens carrying
// the user uid and email. MakerImpl is the concrete implementation backed
// by an HMAC secret and a token lifetime.
package jwt

import (
	"time"
)

// Maker describes the interface for generating and parsing session tokens.
type Maker interface {
	// GenerateToken creates a signed token for the given user uid and email.
	GenerateToken(userUID, email string) (string, error)
	// ParseToken verifies the signature and returns the embedded claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker using a secret signing key and a
// token time-to-live.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker creates a MakerImpl from a secret key and TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
