// Package auth contains the business logic for registration, login and
// session-token validation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/jwt"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/password"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/storage/repository"
)

// Errors surfaced to the HTTP layer.
var (
	// ErrUserExists means the email or username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials means the email/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken means the token failed signature verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSessionExpired means the token verified cryptographically but no
	// live session row backs it (logged out, or past expiry).
	ErrSessionExpired = errors.New("session expired or unknown")
)

// UserRepository describes the persistence contract for users and their
// session tokens.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateSessionToken(ctx context.Context, st models.SessionToken) (int64, error)
	GetUserBySessionToken(ctx context.Context, token string) (*models.User, error)
	DeleteSessionToken(ctx context.Context, token string) (int64, error)
}

// AuthService handles registration, login, logout and token validation.
type AuthService struct {
	users    UserRepository
	jwtMaker jwtlib.Maker
	tokenTTL time.Duration
}

// NewAuthService creates an AuthService.
func NewAuthService(users UserRepository, jwtMaker jwtlib.Maker, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		tokenTTL: tokenTTL,
	}
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword, fullName string) (*models.User, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		FullName:     fullName,
	}
	created, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Login checks the password and, on success, issues a signed session
// token with the configured TTL and persists it. A user may hold several
// live tokens at once (one per device).
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	session := models.SessionToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.tokenTTL),
	}
	if _, err := s.users.CreateSessionToken(ctx, session); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// Authenticate validates a bearer token with both checks: the signature
// first (stateless, fails fast), then the session-store lookup. The
// store lookup is what makes logout effective, so neither check alone
// is enough.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.Authenticate"

	if _, err := s.jwtMaker.ParseToken(token); err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUserBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Logout revokes a session token. Revoking a token that no longer
// exists is still a success.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"

	if _, err := s.users.DeleteSessionToken(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
