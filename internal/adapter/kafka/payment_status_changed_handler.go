package kafka

import (
	"context"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
)

// PaymentStatusChangedHandler reacts to settled payments: a completed payment
// moves its linked order from pending to processing. Payments without a
// linked order (bare STK pushes) have nothing to advance.
type PaymentStatusChangedHandler struct {
	Orders usecase.OrderRepo
	Cache  usecase.StatusCache // optional
}

func NewPaymentStatusChangedHandler(orders usecase.OrderRepo, cache usecase.StatusCache) *PaymentStatusChangedHandler {
	return &PaymentStatusChangedHandler{Orders: orders, Cache: cache}
}

func (h *PaymentStatusChangedHandler) Handle(ctx context.Context, ev usecase.PaymentStatusChangedMsg) error {
	if ev.OrderID == nil {
		return nil
	}
	if ev.Status != string(domain.PaymentCompleted) {
		// A failed payment leaves the order pending for a retry.
		return nil
	}

	moved, err := h.Orders.UpdateStatusIf(ctx, *ev.OrderID, domain.StatusPending, domain.StatusProcessing)
	if err != nil {
		return err
	}
	if moved && h.Cache != nil {
		// Cache best-effort
		_ = h.Cache.SetStatus(ctx, *ev.OrderID, string(domain.StatusProcessing))
	}
	return nil
}
