package models

import (
	"encoding/json"
	"time"
)

// Invoice is an append-only record created when a payment succeeds.
// Amounts are stored in major currency units.
type Invoice struct {
	ID             int64     `json:"id"`
	ExternalID     string    `json:"external_id"` // provider invoice id
	SubscriptionID int64     `json:"subscription_id"`
	AmountDue      float64   `json:"amount_due"`
	Status         string    `json:"status"`
	IssuedAt       time.Time `json:"issued_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// InvoiceItem is one line of an invoice. Never mutated after creation.
type InvoiceItem struct {
	ID          int64   `json:"id"`
	InvoiceID   int64   `json:"invoice_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Quantity    int64   `json:"quantity"`
}

// WebhookEvent is the audit row appended for every verified billing
// event. EventID carries the provider's event id and is unique, which is
// what makes redelivered events detectable.
type WebhookEvent struct {
	ID         int64
	EventID    string
	EventType  string
	Payload    json.RawMessage
	ReceivedAt time.Time
}
