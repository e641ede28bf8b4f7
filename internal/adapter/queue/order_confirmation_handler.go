package queue

import (
	"context"

	"github.com/ezra-kip/farmlink-api/internal/usecase"
)

// Mailer delivers one customer-facing message. Implementations own retry
// semantics; the queue handles redelivery.
type Mailer interface {
	SendOrderConfirmation(msg usecase.OrderConfirmationMsg) error
}

// OrderConfirmationHandler turns a queued confirmation message into an email.
type OrderConfirmationHandler struct {
	mailer Mailer
}

func NewOrderConfirmationHandler(mailer Mailer) *OrderConfirmationHandler {
	return &OrderConfirmationHandler{mailer: mailer}
}

// HandleConfirmation is intended for the JSON adapter
// (queue.JSONHandler[usecase.OrderConfirmationMsg]).
func (h *OrderConfirmationHandler) HandleConfirmation(_ context.Context, msg usecase.OrderConfirmationMsg) error {
	return h.mailer.SendOrderConfirmation(msg)
}
