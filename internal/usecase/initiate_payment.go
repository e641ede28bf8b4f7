package usecase

import (
	"context"
	"strings"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/shopspring/decimal"
)

type InitiatePaymentInput struct {
	UserID  int64
	Phone   string
	OrderID *int64 // optional link to the order being paid for
	Amount  decimal.Decimal
}

type InitiatePayment struct {
	gateway  PaymentGateway
	payments PaymentRepo
}

func NewInitiatePayment(gateway PaymentGateway, payments PaymentRepo) *InitiatePayment {
	return &InitiatePayment{gateway: gateway, payments: payments}
}

// Execute submits the push request and, once the gateway has accepted it,
// records a pending Payment keyed by the gateway's own CheckoutRequestID.
// The row must exist before the callback arrives or reconciliation cannot
// match it. A gateway failure propagates with no Payment left behind.
func (uc *InitiatePayment) Execute(ctx context.Context, in InitiatePaymentInput) (*STKPushResponse, error) {
	verr := NewValidationError()
	if strings.TrimSpace(in.Phone) == "" {
		verr.Add("phone", "required")
	}
	if !in.Amount.IsPositive() {
		verr.Add("amount", "must be positive")
	}
	if !verr.Empty() {
		return nil, verr
	}

	resp, err := uc.gateway.STKPush(ctx, in.Phone, in.Amount)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		UserID:        in.UserID,
		OrderID:       in.OrderID,
		Amount:        in.Amount,
		Status:        domain.PaymentPending,
		TransactionID: resp.CheckoutRequestID,
		PaymentMethod: "mpesa",
	}
	if err := uc.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return resp, nil
}
