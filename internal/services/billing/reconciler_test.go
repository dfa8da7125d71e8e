package billing_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/services/billing"
)

type EventStoreMock struct {
	mock.Mock
}

func (m *EventStoreMock) ApplySubscriptionUpdate(ctx context.Context, eventID, eventType string, payload []byte,
	externalID, status string, periodStart, periodEnd time.Time) (bool, error) {
	args := m.Called(ctx, eventID, eventType, payload, externalID, status, periodStart, periodEnd)
	return args.Bool(0), args.Error(1)
}

func (m *EventStoreMock) ApplySubscriptionDeleted(ctx context.Context, eventID, eventType string, payload []byte,
	externalID string) (bool, error) {
	args := m.Called(ctx, eventID, eventType, payload, externalID)
	return args.Bool(0), args.Error(1)
}

func (m *EventStoreMock) ApplyInvoicePaid(ctx context.Context, eventID, eventType string, payload []byte,
	externalSubID string, invoice models.Invoice, items []models.InvoiceItem) (bool, int64, error) {
	args := m.Called(ctx, eventID, eventType, payload, externalSubID, invoice, items)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *EventStoreMock) RecordWebhookEvent(ctx context.Context, eventID, eventType string, payload []byte) (bool, error) {
	args := m.Called(ctx, eventID, eventType, payload)
	return args.Bool(0), args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) PublishReceipt(ctx context.Context, receipt billing.ReceiptMessage) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestReconciler_SubscriptionUpdated(t *testing.T) {
	raw := []byte(`{
		"id": "evt_1",
		"type": "subscription.updated",
		"data": {"object": {
			"id": "sub_ext_1",
			"status": "active",
			"current_period_start": 1767225600,
			"current_period_end": 1769904000
		}}
	}`)

	store := new(EventStoreMock)
	rec := billing.NewReconciler(store, nil, newNoopLogger())

	store.On("ApplySubscriptionUpdate", mock.Anything, "evt_1", "subscription.updated", raw,
		"sub_ext_1", "active",
		time.Unix(1767225600, 0).UTC(), time.Unix(1769904000, 0).UTC()).
		Return(true, nil).Once()

	assert.NoError(t, rec.Process(context.Background(), raw))
	store.AssertExpectations(t)
}

func TestReconciler_SubscriptionUpdatedReplay(t *testing.T) {
	raw := []byte(`{
		"id": "evt_1",
		"type": "subscription.updated",
		"data": {"object": {"id": "sub_ext_1", "status": "active"}}
	}`)

	store := new(EventStoreMock)
	rec := billing.NewReconciler(store, nil, newNoopLogger())

	// The store reports the event id as already seen; the redelivery is
	// acknowledged without error.
	store.On("ApplySubscriptionUpdate", mock.Anything, "evt_1", "subscription.updated", raw,
		"sub_ext_1", "active", mock.Anything, mock.Anything).
		Return(false, nil).Once()

	assert.NoError(t, rec.Process(context.Background(), raw))
	store.AssertExpectations(t)
}

func TestReconciler_SubscriptionDeleted(t *testing.T) {
	raw := []byte(`{
		"id": "evt_2",
		"type": "subscription.deleted",
		"data": {"object": {"id": "sub_ext_1", "status": "canceled"}}
	}`)

	store := new(EventStoreMock)
	rec := billing.NewReconciler(store, nil, newNoopLogger())

	store.On("ApplySubscriptionDeleted", mock.Anything, "evt_2", "subscription.deleted", raw, "sub_ext_1").
		Return(true, nil).Once()

	assert.NoError(t, rec.Process(context.Background(), raw))
	store.AssertExpectations(t)
}

func TestReconciler_InvoicePaid(t *testing.T) {
	raw := []byte(`{
		"id": "evt_3",
		"type": "invoice.payment_succeeded",
		"data": {"object": {
			"id": "in_1",
			"subscription": "sub_ext_1",
			"amount_due": 1900,
			"status": "paid",
			"created": 1767225600,
			"lines": {"data": [
				{"description": "Creator plan", "amount": 1900, "quantity": 1}
			]}
		}}
	}`)

	store := new(EventStoreMock)
	notifier := new(NotifierMock)
	rec := billing.NewReconciler(store, notifier, newNoopLogger())

	wantInvoice := models.Invoice{
		ExternalID: "in_1",
		AmountDue:  19.00,
		Status:     "paid",
		IssuedAt:   time.Unix(1767225600, 0).UTC(),
	}
	wantItems := []models.InvoiceItem{
		{Description: "Creator plan", Amount: 19.00, Quantity: 1},
	}

	store.On("ApplyInvoicePaid", mock.Anything, "evt_3", "invoice.payment_succeeded", raw,
		"sub_ext_1", wantInvoice, wantItems).
		Return(true, int64(7), nil).Once()
	notifier.On("PublishReceipt", mock.Anything, billing.ReceiptMessage{
		SubscriptionID: 7,
		InvoiceID:      "in_1",
		AmountDue:      19.00,
	}).Return(nil).Once()

	assert.NoError(t, rec.Process(context.Background(), raw))
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestReconciler_InvoicePaidNotifierFailureStillAcks(t *testing.T) {
	raw := []byte(`{
		"id": "evt_3",
		"type": "invoice.payment_succeeded",
		"data": {"object": {
			"id": "in_1",
			"subscription": "sub_ext_1",
			"amount_due": 1900,
			"status": "paid",
			"created": 1767225600,
			"lines": {"data": []}
		}}
	}`)

	store := new(EventStoreMock)
	notifier := new(NotifierMock)
	rec := billing.NewReconciler(store, notifier, newNoopLogger())

	store.On("ApplyInvoicePaid", mock.Anything, "evt_3", "invoice.payment_succeeded", raw,
		"sub_ext_1", mock.Anything, mock.Anything).
		Return(true, int64(7), nil).Once()
	notifier.On("PublishReceipt", mock.Anything, mock.Anything).
		Return(errors.New("broker unavailable")).Once()

	assert.NoError(t, rec.Process(context.Background(), raw))
}

func TestReconciler_InvoicePaidWithoutLocalSubscription(t *testing.T) {
	raw := []byte(`{
		"id": "evt_4",
		"type": "invoice.payment_succeeded",
		"data": {"object": {
			"id": "in_2",
			"subscription": "sub_unknown",
			"amount_due": 4900,
			"status": "paid",
			"created": 1767225600,
			"lines": {"data": []}
		}}
	}`)

	store := new(EventStoreMock)
	notifier := new(NotifierMock)
	rec := billing.NewReconciler(store, notifier, newNoopLogger())

	// Applied with no matching local subscription: audited, no receipt.
	store.On("ApplyInvoicePaid", mock.Anything, "evt_4", "invoice.payment_succeeded", raw,
		"sub_unknown", mock.Anything, mock.Anything).
		Return(true, int64(0), nil).Once()

	assert.NoError(t, rec.Process(context.Background(), raw))
	notifier.AssertNotCalled(t, "PublishReceipt", mock.Anything, mock.Anything)
}

func TestReconciler_UnknownEventTypeIsAudited(t *testing.T) {
	raw := []byte(`{
		"id": "evt_5",
		"type": "customer.updated",
		"data": {"object": {"id": "cus_1"}}
	}`)

	store := new(EventStoreMock)
	rec := billing.NewReconciler(store, nil, newNoopLogger())

	store.On("RecordWebhookEvent", mock.Anything, "evt_5", "customer.updated", raw).
		Return(true, nil).Once()

	assert.NoError(t, rec.Process(context.Background(), raw))
	store.AssertExpectations(t)
}

func TestReconciler_BadPayload(t *testing.T) {
	store := new(EventStoreMock)
	rec := billing.NewReconciler(store, nil, newNoopLogger())

	tests := []struct {
		name string
		raw  []byte
	}{
		{"not json", []byte("not json at all")},
		{"missing id", []byte(`{"type": "subscription.updated", "data": {"object": {}}}`)},
		{"missing type", []byte(`{"id": "evt_6", "data": {"object": {}}}`)},
		{"missing object id", []byte(`{"id": "evt_7", "type": "subscription.updated", "data": {"object": {"status": "active"}}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rec.Process(context.Background(), tt.raw)
			assert.ErrorIs(t, err, billing.ErrBadPayload)
		})
	}

	store.AssertNotCalled(t, "ApplySubscriptionUpdate", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciler_StorageFailurePropagates(t *testing.T) {
	raw := []byte(`{
		"id": "evt_8",
		"type": "subscription.deleted",
		"data": {"object": {"id": "sub_ext_1"}}
	}`)

	store := new(EventStoreMock)
	rec := billing.NewReconciler(store, nil, newNoopLogger())

	store.On("ApplySubscriptionDeleted", mock.Anything, "evt_8", "subscription.deleted", raw, "sub_ext_1").
		Return(false, errors.New("db error")).Once()

	err := rec.Process(context.Background(), raw)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}
