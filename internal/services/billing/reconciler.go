// Package billing applies verified provider webhook events to local
// subscription and invoice state.
//
// Every mutation runs in one transaction with its audit row, keyed by
// the provider's event id, so a redelivered event is a detected replay
// and never applied twice.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/sl"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/metrics"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
)

// Recognized provider event types. Anything else is audited and acked
// as a no-op.
const (
	EventSubscriptionCreated = "subscription.created"
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
	EventInvoicePaid         = "invoice.payment_succeeded"
)

// ErrBadPayload means the verified body did not parse as an event
// envelope. Returned before anything is touched.
var ErrBadPayload = errors.New("malformed event payload")

// EventStore describes the transactional apply operations offered by
// the storage layer.
type EventStore interface {
	ApplySubscriptionUpdate(ctx context.Context, eventID, eventType string, payload []byte,
		externalID, status string, periodStart, periodEnd time.Time) (bool, error)
	ApplySubscriptionDeleted(ctx context.Context, eventID, eventType string, payload []byte,
		externalID string) (bool, error)
	ApplyInvoicePaid(ctx context.Context, eventID, eventType string, payload []byte,
		externalSubID string, invoice models.Invoice, items []models.InvoiceItem) (bool, int64, error)
	RecordWebhookEvent(ctx context.Context, eventID, eventType string, payload []byte) (bool, error)
}

// Notifier publishes receipt notifications after a payment lands.
type Notifier interface {
	PublishReceipt(ctx context.Context, receipt ReceiptMessage) error
}

// ReceiptMessage is the payload handed to the notification workers.
type ReceiptMessage struct {
	SubscriptionID int64   `json:"subscription_id"`
	InvoiceID      string  `json:"invoice_id"`
	AmountDue      float64 `json:"amount_due"`
}

// Reconciler dispatches verified events to the store.
type Reconciler struct {
	store    EventStore
	notifier Notifier
	log      *slog.Logger
}

// NewReconciler creates a Reconciler. notifier may be nil when no
// broker is configured.
func NewReconciler(store EventStore, notifier Notifier, log *slog.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

// event is the provider's envelope. data.object stays raw until the
// event type picks the concrete schema to parse it with.
type event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type subscriptionObject struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
}

type invoiceObject struct {
	ID           string `json:"id"`
	Subscription string `json:"subscription"`
	AmountDue    int64  `json:"amount_due"` // minor units
	Status       string `json:"status"`
	Created      int64  `json:"created"`
	Lines        struct {
		Data []invoiceLine `json:"data"`
	} `json:"lines"`
}

type invoiceLine struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"` // minor units
	Quantity    int64  `json:"quantity"`
}

// Process applies one verified event body. A storage failure is
// returned so the handler answers 500 and the provider redelivers;
// replay of an already-applied event id is a silent success.
func (r *Reconciler) Process(ctx context.Context, raw []byte) error {
	const op = "billing.Process"

	var ev event
	if err := json.Unmarshal(raw, &ev); err != nil || ev.ID == "" || ev.Type == "" {
		return ErrBadPayload
	}

	log := r.log.With(slog.String("op", op),
		slog.String("event_id", ev.ID), slog.String("event_type", ev.Type))

	switch ev.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		var obj subscriptionObject
		if err := json.Unmarshal(ev.Data.Object, &obj); err != nil || obj.ID == "" {
			return ErrBadPayload
		}
		applied, err := r.store.ApplySubscriptionUpdate(ctx, ev.ID, ev.Type, raw,
			obj.ID, obj.Status,
			time.Unix(obj.CurrentPeriodStart, 0).UTC(),
			time.Unix(obj.CurrentPeriodEnd, 0).UTC())
		if err != nil {
			metrics.WebhookEvents.WithLabelValues(ev.Type, "error").Inc()
			return fmt.Errorf("%s: %w", op, err)
		}
		r.observe(log, ev.Type, applied)

	case EventSubscriptionDeleted:
		var obj subscriptionObject
		if err := json.Unmarshal(ev.Data.Object, &obj); err != nil || obj.ID == "" {
			return ErrBadPayload
		}
		applied, err := r.store.ApplySubscriptionDeleted(ctx, ev.ID, ev.Type, raw, obj.ID)
		if err != nil {
			metrics.WebhookEvents.WithLabelValues(ev.Type, "error").Inc()
			return fmt.Errorf("%s: %w", op, err)
		}
		r.observe(log, ev.Type, applied)

	case EventInvoicePaid:
		var obj invoiceObject
		if err := json.Unmarshal(ev.Data.Object, &obj); err != nil || obj.ID == "" {
			return ErrBadPayload
		}
		invoice := models.Invoice{
			ExternalID: obj.ID,
			AmountDue:  float64(obj.AmountDue) / 100,
			Status:     obj.Status,
			IssuedAt:   time.Unix(obj.Created, 0).UTC(),
		}
		items := make([]models.InvoiceItem, 0, len(obj.Lines.Data))
		for _, line := range obj.Lines.Data {
			items = append(items, models.InvoiceItem{
				Description: line.Description,
				Amount:      float64(line.Amount) / 100,
				Quantity:    line.Quantity,
			})
		}
		applied, subID, err := r.store.ApplyInvoicePaid(ctx, ev.ID, ev.Type, raw,
			obj.Subscription, invoice, items)
		if err != nil {
			metrics.WebhookEvents.WithLabelValues(ev.Type, "error").Inc()
			return fmt.Errorf("%s: %w", op, err)
		}
		r.observe(log, ev.Type, applied)

		if applied && subID != 0 && r.notifier != nil {
			receipt := ReceiptMessage{
				SubscriptionID: subID,
				InvoiceID:      invoice.ExternalID,
				AmountDue:      invoice.AmountDue,
			}
			// Best effort: a lost receipt must not fail the ack.
			if err := r.notifier.PublishReceipt(ctx, receipt); err != nil {
				log.Error("failed to publish receipt", sl.Err(err))
			}
		}

	default:
		applied, err := r.store.RecordWebhookEvent(ctx, ev.ID, ev.Type, raw)
		if err != nil {
			metrics.WebhookEvents.WithLabelValues(ev.Type, "error").Inc()
			return fmt.Errorf("%s: %w", op, err)
		}
		if applied {
			metrics.WebhookEvents.WithLabelValues(ev.Type, "ignored").Inc()
			log.Info("ignored webhook event")
		} else {
			metrics.WebhookEvents.WithLabelValues(ev.Type, "replay").Inc()
			log.Info("duplicate webhook event skipped")
		}
	}

	return nil
}

func (r *Reconciler) observe(log *slog.Logger, eventType string, applied bool) {
	if applied {
		metrics.WebhookEvents.WithLabelValues(eventType, "applied").Inc()
		log.Info("webhook event applied")
		return
	}
	metrics.WebhookEvents.WithLabelValues(eventType, "replay").Inc()
	log.Info("duplicate webhook event skipped")
}
