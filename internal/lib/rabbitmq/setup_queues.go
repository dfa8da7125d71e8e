package rabbitmq

// QueueConfig pairs a queue with its routing key on the notifications
// exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetBillingQueues returns the queues consumed by the notification
// workers.
func GetBillingQueues(receiptQueue string) []QueueConfig {
	return []QueueConfig{
		{QueueName: receiptQueue, RoutingKey: "receipt"},
	}
}
