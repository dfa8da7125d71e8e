package billing

import (
	"context"

	"github.com/streadway/amqp"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/rabbitmq"
)

// ReceiptNotifier publishes receipt messages to the notifications
// exchange for the email workers to pick up.
type ReceiptNotifier struct {
	ch         *amqp.Channel
	routingKey string
}

// NewReceiptNotifier creates a ReceiptNotifier on an open channel.
func NewReceiptNotifier(ch *amqp.Channel, routingKey string) *ReceiptNotifier {
	return &ReceiptNotifier{
		ch:         ch,
		routingKey: routingKey,
	}
}

// PublishReceipt sends one receipt message.
func (n *ReceiptNotifier) PublishReceipt(_ context.Context, receipt ReceiptMessage) error {
	return rabbitmq.PublishMessage(n.ch, "notifications", n.routingKey, receipt)
}
