package billingprovider

// CreateSubscriptionRequest is the payload for starting a subscription.
type CreateSubscriptionRequest struct {
	CustomerEmail   string            `json:"customer_email"`
	PriceID         string            `json:"price_id"`
	PaymentMethodID string            `json:"payment_method_id"`
	Metadata        map[string]string `json:"metadata,omitempty"` // user_uid and friends
}

// SubscriptionResponse is the provider's representation of a
// subscription. Period bounds are unix seconds, as on the wire.
type SubscriptionResponse struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
}
