package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
)

// ListPlans returns the full plan catalog.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price_cents, currency, billing_interval,
			      external_price_id, created_at
			  FROM subscription_plans
			  ORDER BY price_cents`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		var p models.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents,
			&p.Currency, &p.Interval, &p.ExternalPriceID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPlanByName returns one plan by its unique name or ErrNotFound.
func (s *Storage) GetPlanByName(ctx context.Context, name string) (*models.Plan, error) {
	const op = "storage.GetPlanByName"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price_cents, currency, billing_interval,
			      external_price_id, created_at
			  FROM subscription_plans
			  WHERE name = $1`
	var p models.Plan
	if err := s.DB.QueryRowContext(ctx, query, name).Scan(&p.ID, &p.Name, &p.Description,
		&p.PriceCents, &p.Currency, &p.Interval, &p.ExternalPriceID, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// CreateSubscription inserts a subscription row populated from the
// billing provider's response and returns its id.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_id, plan_id, external_id, status,
			      current_period_start, current_period_end)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.PlanID, sub.ExternalID, sub.Status,
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListSubscriptions returns all subscriptions belonging to a user.
func (s *Storage) ListSubscriptions(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_id, external_id, status,
			      current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetSubscriptionForUser returns a subscription by id scoped to its
// owner. A row belonging to another user yields ErrNotFound.
func (s *Storage) GetSubscriptionForUser(ctx context.Context, id, userID int64) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionForUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_id, external_id, status,
			      current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE id = $1 AND user_id = $2`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// GetActiveSubscription returns the user's subscription with
// status 'active' and a current period that has not yet ended, or
// ErrNotFound. Pure read; nothing here ever writes status.
func (s *Storage) GetActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_id, external_id, status,
			      current_period_start, current_period_end, created_at, updated_at
			  FROM subscriptions
			  WHERE user_id = $1 AND status = 'active' AND current_period_end > now()
			  ORDER BY current_period_end DESC
			  LIMIT 1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// MarkSubscriptionCanceled sets a subscription's status to canceled
// after an explicit cancel request. Period fields stay untouched.
func (s *Storage) MarkSubscriptionCanceled(ctx context.Context, id int64) error {
	const op = "storage.MarkSubscriptionCanceled"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = 'canceled', updated_at = now()
			  WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	var updatedAt sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.ExternalID, &sub.Status,
		&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		sub.UpdatedAt = &updatedAt.Time
	}
	return &sub, nil
}
