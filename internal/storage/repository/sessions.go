package repository

import (
	"context"
	"fmt"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
)

// CreateSessionToken persists an issued token with its expiry.
func (s *Storage) CreateSessionToken(ctx context.Context, st models.SessionToken) (int64, error) {
	const op = "storage.CreateSessionToken"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO session_tokens (token, user_id, expires_at)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query, st.Token, st.UserID, st.ExpiresAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserBySessionToken resolves a non-expired session token to its
// owning user. An unknown or expired token yields ErrNotFound; this
// lookup is what makes logout effective before natural expiry.
func (s *Storage) GetUserBySessionToken(ctx context.Context, token string) (*models.User, error) {
	const op = "storage.GetUserBySessionToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id, u.uid, u.email, u.username, u.password_hash, u.full_name,
			      u.bio, u.created_at, u.updated_at
			  FROM session_tokens st
			  JOIN users u ON u.id = st.user_id
			  WHERE st.token = $1 AND st.expires_at > now()`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, token), op)
}

// DeleteSessionToken removes a token and returns the number of deleted
// rows. Deleting zero rows is not an error, which makes logout idempotent.
func (s *Storage) DeleteSessionToken(ctx context.Context, token string) (int64, error) {
	const op = "storage.DeleteSessionToken"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM session_tokens WHERE token = $1`
	result, err := s.DB.ExecContext(ctx, query, token)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// DeleteExpiredSessionTokens clears out tokens past their expiry.
// Called at startup so the table does not accumulate dead rows.
func (s *Storage) DeleteExpiredSessionTokens(ctx context.Context) (int64, error) {
	const op = "storage.DeleteExpiredSessionTokens"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM session_tokens WHERE expires_at <= now()`
	result, err := s.DB.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
