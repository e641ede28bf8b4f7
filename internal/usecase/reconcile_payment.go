package usecase

import (
	"context"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/logging"
)

// ResultCodeSuccess is the gateway's "payment went through" result code.
const ResultCodeSuccess = "0"

type ReconcilePayment struct {
	payments PaymentRepo
	lock     ReconcileLock
	events   EventPublisher
}

func NewReconcilePayment(payments PaymentRepo, lock ReconcileLock, events EventPublisher) *ReconcilePayment {
	return &ReconcilePayment{payments: payments, lock: lock, events: events}
}

// Execute matches a gateway callback to its Payment by transaction id and
// drives the row to its terminal state.
//
// Duplicate deliveries are safe: once a payment is terminal, a callback
// carrying the same outcome is a no-op success, and one carrying a different
// outcome is ignored (the first terminal state wins). An unmatched callback
// is ErrNotFound; no payment ever materializes from a callback.
func (uc *ReconcilePayment) Execute(ctx context.Context, txID, resultCode string) error {
	if txID == "" {
		return ErrNotFound
	}

	// Serialize concurrent callbacks for the same transaction.
	ok, err := uc.lock.TryLock(ctx, txID)
	if err != nil {
		return err
	}
	if !ok {
		// A concurrent delivery holds the lock; treat this one as a duplicate.
		return nil
	}
	defer func() {
		if err := uc.lock.Release(ctx, txID); err != nil {
			logging.FromCtx(ctx).Warn("reconcile lock release failed", "tx_id", txID, "error", err)
		}
	}()

	payment, err := uc.payments.GetByTransactionID(ctx, txID)
	if err != nil {
		return err
	}

	target := domain.PaymentFailed
	if resultCode == ResultCodeSuccess {
		target = domain.PaymentCompleted
	}

	if payment.Status == target {
		return nil // already applied
	}
	if payment.Status.IsTerminal() {
		logging.FromCtx(ctx).Warn("callback for settled payment ignored",
			"tx_id", txID, "current", string(payment.Status), "incoming", string(target))
		return nil
	}

	swapped, err := uc.payments.UpdateStatusIf(ctx, txID, domain.PaymentPending, target)
	if err != nil {
		return err
	}
	if !swapped {
		// Lost the row-level race; the row is terminal now either way.
		return nil
	}

	// Downstream consumers move the linked order along. Best effort.
	msg := PaymentStatusChangedMsg{
		TransactionID: txID,
		OrderID:       payment.OrderID,
		Status:        string(target),
	}
	if err := uc.events.PublishPaymentStatusChanged(ctx, msg); err != nil {
		logging.FromCtx(ctx).Warn("payment status event publish failed", "tx_id", txID, "error", err)
	}
	return nil
}
