package usecase

import (
	"context"
	"testing"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiatePayment_RecordsPendingPayment(t *testing.T) {
	gw := &MockGateway{Resp: &STKPushResponse{
		MerchantRequestID: "mr-1",
		CheckoutRequestID: "ws_CO_abc",
		ResponseCode:      "0",
		CustomerMessage:   "Success. Request accepted for processing",
	}}
	payments := &MockPaymentRepo{}
	uc := NewInitiatePayment(gw, payments)

	resp, err := uc.Execute(context.Background(), InitiatePaymentInput{
		UserID: 5,
		Phone:  "254712345678",
		Amount: dec("336.40"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_abc", resp.CheckoutRequestID)

	// The row must exist before the callback arrives.
	p := payments.CreatedPayment
	require.NotNil(t, p)
	assert.Equal(t, "ws_CO_abc", p.TransactionID)
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, "mpesa", p.PaymentMethod)
	assert.Equal(t, int64(5), p.UserID)
	assert.Equal(t, "336.40", p.Amount.StringFixed(2))
}

func TestInitiatePayment_GatewayFailureLeavesNoPayment(t *testing.T) {
	gw := &MockGateway{Err: &GatewayError{Op: "stkpush", Err: errBoom}}
	payments := &MockPaymentRepo{}
	uc := NewInitiatePayment(gw, payments)

	_, err := uc.Execute(context.Background(), InitiatePaymentInput{
		UserID: 5,
		Phone:  "254712345678",
		Amount: dec("100"),
	})

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Nil(t, payments.CreatedPayment)
}

func TestInitiatePayment_ValidatesInput(t *testing.T) {
	gw := &MockGateway{}
	uc := NewInitiatePayment(gw, &MockPaymentRepo{})

	_, err := uc.Execute(context.Background(), InitiatePaymentInput{
		Phone:  "  ",
		Amount: dec("0"),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "phone")
	assert.Contains(t, verr.Fields, "amount")
	assert.Zero(t, gw.Calls)
}

func TestInitiatePayment_OrderLinkPreserved(t *testing.T) {
	gw := &MockGateway{Resp: &STKPushResponse{CheckoutRequestID: "ws_CO_abc"}}
	payments := &MockPaymentRepo{}
	uc := NewInitiatePayment(gw, payments)

	orderID := int64(42)
	_, err := uc.Execute(context.Background(), InitiatePaymentInput{
		UserID:  5,
		Phone:   "254712345678",
		OrderID: &orderID,
		Amount:  dec("250"),
	})
	require.NoError(t, err)
	require.NotNil(t, payments.CreatedPayment.OrderID)
	assert.Equal(t, int64(42), *payments.CreatedPayment.OrderID)
}
