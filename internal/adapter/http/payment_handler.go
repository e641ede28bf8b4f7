package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ezra-kip/farmlink-api/internal/adapter/http/middleware"
	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	initiate  *usecase.InitiatePayment
	reconcile *usecase.ReconcilePayment
	payments  usecase.PaymentRepo
	amount    decimal.Decimal // fixed push amount, from config
}

func NewPaymentHandler(initiate *usecase.InitiatePayment, reconcile *usecase.ReconcilePayment, payments usecase.PaymentRepo, amount decimal.Decimal) *PaymentHandler {
	return &PaymentHandler{initiate: initiate, reconcile: reconcile, payments: payments, amount: amount}
}

type stkPushReq struct {
	Phone   string `json:"phone"`
	OrderID *int64 `json:"order_id"`
}

// StkPush proxies the push-payment initiation and returns the gateway's
// synchronous response verbatim. The pending Payment row is recorded before
// the response leaves this process.
func (h *PaymentHandler) StkPush(c *gin.Context) {
	var req stkPushReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	userID, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c, 20*time.Second) // the gateway round trip is slow
	defer cancel()

	resp, err := h.initiate.Execute(ctx, usecase.InitiatePaymentInput{
		UserID:  userID,
		Phone:   req.Phone,
		OrderID: req.OrderID,
		Amount:  h.amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type mpesaCallbackReq struct {
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        any    `json:"ResultCode"` // number in practice, string in some sandboxes
}

// Callback receives the gateway's asynchronous verdict. 200 when the
// transaction matched (including duplicate deliveries), 404 when no Payment
// carries the reference.
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req mpesaCallbackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	resultCode := normalizeResultCode(req.ResultCode)

	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	if err := h.reconcile.Execute(ctx, req.CheckoutRequestID, resultCode); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
}

func (h *PaymentHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	payments, err := h.payments.ListByUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentsJSON(payments))
}

// normalizeResultCode renders the gateway's result code as a string; JSON
// numbers arrive as float64.
func normalizeResultCode(v any) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.0f", n)
	case string:
		return n
	case nil:
		return ""
	default:
		return fmt.Sprint(n)
	}
}

func paymentsJSON(payments []domain.Payment) []gin.H {
	out := make([]gin.H, 0, len(payments))
	for _, p := range payments {
		entry := gin.H{
			"id":             p.ID,
			"amount":         p.Amount,
			"status":         p.Status,
			"transaction_id": p.TransactionID,
			"payment_method": p.PaymentMethod,
			"created_at":     p.CreatedAt,
		}
		if p.OrderID != nil {
			entry["order"] = *p.OrderID
		}
		out = append(out, entry)
	}
	return out
}
