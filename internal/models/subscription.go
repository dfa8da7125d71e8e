package models

import "time"

// Subscription statuses as reported by the billing provider.
// Transitions are driven by webhook events or an explicit cancel request;
// canceled is terminal.
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// Plan is a named, priced offering. Reference data, effectively
// immutable after creation.
type Plan struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	PriceCents      int64     `json:"price_cents"`
	Currency        string    `json:"currency"`
	Interval        string    `json:"interval"` // billing interval, e.g. "month"
	ExternalPriceID string    `json:"external_price_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// Subscription ties a user to a plan for a billing period tracked by the
// external provider. Status and period fields are owned by the webhook
// reconciler; user-facing code only reads them.
type Subscription struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"-"`
	PlanID             int64      `json:"plan_id"`
	ExternalID         string     `json:"external_id"` // provider subscription id
	Status             string     `json:"status"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// IsActive reports whether the subscription entitles the user right now.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.CurrentPeriodEnd)
}
