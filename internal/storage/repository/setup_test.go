package repository

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/migrations"
)

// setupTestDatabase starts a throwaway PostgreSQL container, applies the
// migrations and returns a ready Storage.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
			wait.ForListeningPort(nat.Port("5432/tcp")),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	require.NoError(t, migrations.Run(storage.DB, "../../../migrations"))

	cleanup := func() {
		_ = storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}

// TestDataFactory provides shortcuts for seeding test rows.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory creates a factory bound to the given Storage.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser inserts a user and returns its id.
func (f *TestDataFactory) CreateUser(t *testing.T, email, username string) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO users (uid, email, username, password_hash)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		uuid.New().String(), email, username, "hashedpassword").Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSessionToken inserts a session token for a user.
func (f *TestDataFactory) CreateSessionToken(t *testing.T, token string, userID int64, expiresAt time.Time) {
	_, err := f.storage.DB.Exec(`INSERT INTO session_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		token, userID, expiresAt)
	require.NoError(t, err)
}

// CreateSubscription inserts a subscription on the seeded "creator" plan
// and returns its id.
func (f *TestDataFactory) CreateSubscription(t *testing.T, userID int64, externalID, status string,
	periodStart, periodEnd time.Time) int64 {
	var planID int64
	err := f.storage.DB.QueryRow(`SELECT id FROM subscription_plans WHERE name = 'creator'`).Scan(&planID)
	require.NoError(t, err)

	var id int64
	err = f.storage.DB.QueryRow(`INSERT INTO subscriptions
		(user_id, plan_id, external_id, status, current_period_start, current_period_end)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		userID, planID, externalID, status, periodStart, periodEnd).Scan(&id)
	require.NoError(t, err)
	return id
}
