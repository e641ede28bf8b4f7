package usecase

// Published to RabbitMQ after an order commits; the notification worker
// turns it into a confirmation email.
type OrderConfirmationMsg struct {
	OrderID       int64  `json:"orderId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
}

// Published to Kafka when a payment reaches a terminal state.
type PaymentStatusChangedMsg struct {
	TransactionID string `json:"transactionId"`
	OrderID       *int64 `json:"orderId,omitempty"`
	Status        string `json:"status"` // "completed" or "failed"
}
