package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
)

// The Apply* methods below run each webhook mutation and its audit row
// in one transaction keyed by the provider's event id. The unique index
// on webhook_events.event_id turns a redelivered event into a no-op:
// the audit insert conflicts, nothing is applied, and the caller acks
// the delivery anyway. All of them return applied=false on a replay.

func insertEventTx(ctx context.Context, tx *sql.Tx, eventID, eventType string, payload []byte) (bool, error) {
	query := `INSERT INTO webhook_events (event_id, event_type, payload)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (event_id) DO NOTHING
			  RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, query, eventID, eventType, payload).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecordWebhookEvent appends the audit row for an event that carries no
// state change (unrecognized types are logged, not rejected).
func (s *Storage) RecordWebhookEvent(ctx context.Context, eventID, eventType string, payload []byte) (bool, error) {
	const op = "storage.RecordWebhookEvent"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO webhook_events (event_id, event_type, payload)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (event_id) DO NOTHING
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query, eventID, eventType, payload).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// GetWebhookEvent fetches the audit row for a provider event id, or
// ErrNotFound when no event with that id was ever recorded.
func (s *Storage) GetWebhookEvent(ctx context.Context, eventID string) (*models.WebhookEvent, error) {
	const op = "storage.GetWebhookEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, event_id, event_type, payload, received_at
			  FROM webhook_events
			  WHERE event_id = $1`
	var event models.WebhookEvent
	err := s.DB.QueryRowContext(ctx, query, eventID).
		Scan(&event.ID, &event.EventID, &event.EventType, &event.Payload, &event.ReceivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &event, nil
}

// ApplySubscriptionUpdate overwrites status and period on the
// subscription matched by the provider's subscription id. The provider
// payload is authoritative for these fields; a missing local row is not
// an error.
func (s *Storage) ApplySubscriptionUpdate(ctx context.Context, eventID, eventType string, payload []byte,
	externalID, status string, periodStart, periodEnd time.Time) (bool, error) {
	const op = "storage.ApplySubscriptionUpdate"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	applied, err := insertEventTx(ctx, tx, eventID, eventType, payload)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !applied {
		return false, nil
	}

	query := `UPDATE subscriptions
			  SET status = $1, current_period_start = $2, current_period_end = $3,
			      updated_at = now()
			  WHERE external_id = $4`
	if _, err := tx.ExecContext(ctx, query, status, periodStart, periodEnd, externalID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// ApplySubscriptionDeleted marks the matched subscription canceled.
// Period fields are left untouched.
func (s *Storage) ApplySubscriptionDeleted(ctx context.Context, eventID, eventType string, payload []byte,
	externalID string) (bool, error) {
	const op = "storage.ApplySubscriptionDeleted"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	applied, err := insertEventTx(ctx, tx, eventID, eventType, payload)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !applied {
		return false, nil
	}

	query := `UPDATE subscriptions
			  SET status = 'canceled', updated_at = now()
			  WHERE external_id = $1`
	if _, err := tx.ExecContext(ctx, query, externalID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// ApplyInvoicePaid writes the invoice and its items together with the
// audit row in one transaction. Returns the local subscription id the
// invoice was attached to, or 0 when no subscription matched the
// provider id (the event is still recorded and acked).
func (s *Storage) ApplyInvoicePaid(ctx context.Context, eventID, eventType string, payload []byte,
	externalSubID string, invoice models.Invoice, items []models.InvoiceItem) (bool, int64, error) {
	const op = "storage.ApplyInvoicePaid"
	select {
	case <-ctx.Done():
		return false, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	applied, err := insertEventTx(ctx, tx, eventID, eventType, payload)
	if err != nil {
		return false, 0, fmt.Errorf("%s: %w", op, err)
	}
	if !applied {
		return false, 0, nil
	}

	var subID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM subscriptions WHERE external_id = $1`, externalSubID).Scan(&subID)
	if errors.Is(err, sql.ErrNoRows) {
		// No local match: predates the record or belongs elsewhere.
		if err := tx.Commit(); err != nil {
			return false, 0, fmt.Errorf("%s: %w", op, err)
		}
		return true, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("%s: %w", op, err)
	}

	var invoiceID int64
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO invoices (external_id, subscription_id, amount_due, status, issued_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		invoice.ExternalID, subID, invoice.AmountDue, invoice.Status, invoice.IssuedAt).
		Scan(&invoiceID); err != nil {
		return false, 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, item := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_items (invoice_id, description, amount, quantity)
			 VALUES ($1, $2, $3, $4)`,
			invoiceID, item.Description, item.Amount, item.Quantity); err != nil {
			return false, 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("%s: %w", op, err)
	}
	return true, subID, nil
}

// ListInvoices returns the invoices recorded for a subscription, newest
// first.
func (s *Storage) ListInvoices(ctx context.Context, subscriptionID int64) ([]*models.Invoice, error) {
	const op = "storage.ListInvoices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, external_id, subscription_id, amount_due, status, issued_at, created_at
			  FROM invoices
			  WHERE subscription_id = $1
			  ORDER BY issued_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.ExternalID, &inv.SubscriptionID,
			&inv.AmountDue, &inv.Status, &inv.IssuedAt, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &inv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
