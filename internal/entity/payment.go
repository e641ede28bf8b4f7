package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

// Payment tracks one push-payment request from initiation to its terminal
// state. TransactionID is the gateway's CheckoutRequestID, stored at
// initiation time so the asynchronous callback can always be matched.
type Payment struct {
	ID            int64
	UserID        int64
	OrderID       *int64
	Amount        decimal.Decimal
	Status        PaymentStatus
	TransactionID string
	PaymentMethod string
	CreatedAt     time.Time
}
