package usecase

import (
	"context"
	"testing"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingPayment(txID string) *domain.Payment {
	orderID := int64(11)
	return &domain.Payment{
		ID:            1,
		UserID:        5,
		OrderID:       &orderID,
		Amount:        dec("336.40"),
		Status:        domain.PaymentPending,
		TransactionID: txID,
	}
}

func TestReconcilePayment_SuccessCodeCompletes(t *testing.T) {
	payments := &MockPaymentRepo{
		Payments: map[string]*domain.Payment{"ws_CO_1": pendingPayment("ws_CO_1")},
		SwapOK:   true,
	}
	events := &MockEventPublisher{}
	uc := NewReconcilePayment(payments, &MockReconcileLock{Acquired: true}, events)

	err := uc.Execute(context.Background(), "ws_CO_1", "0")
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentPending, payments.SwapFrom)
	assert.Equal(t, domain.PaymentCompleted, payments.SwapTo)
	require.Len(t, events.Published, 1)
	assert.Equal(t, "ws_CO_1", events.Published[0].TransactionID)
	assert.Equal(t, "completed", events.Published[0].Status)
}

func TestReconcilePayment_NonZeroCodeFails(t *testing.T) {
	payments := &MockPaymentRepo{
		Payments: map[string]*domain.Payment{"ws_CO_1": pendingPayment("ws_CO_1")},
		SwapOK:   true,
	}
	uc := NewReconcilePayment(payments, &MockReconcileLock{Acquired: true}, &MockEventPublisher{})

	err := uc.Execute(context.Background(), "ws_CO_1", "1032")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, payments.SwapTo)
}

func TestReconcilePayment_UnmatchedCallback(t *testing.T) {
	payments := &MockPaymentRepo{Payments: map[string]*domain.Payment{}}
	uc := NewReconcilePayment(payments, &MockReconcileLock{Acquired: true}, &MockEventPublisher{})

	err := uc.Execute(context.Background(), "ws_CO_unknown", "0")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, payments.SwapCalls)
}

func TestReconcilePayment_EmptyTransactionID(t *testing.T) {
	uc := NewReconcilePayment(&MockPaymentRepo{}, &MockReconcileLock{Acquired: true}, &MockEventPublisher{})

	err := uc.Execute(context.Background(), "", "0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReconcilePayment_DuplicateSameOutcomeIsNoop(t *testing.T) {
	p := pendingPayment("ws_CO_1")
	p.Status = domain.PaymentCompleted
	payments := &MockPaymentRepo{Payments: map[string]*domain.Payment{"ws_CO_1": p}}
	events := &MockEventPublisher{}
	uc := NewReconcilePayment(payments, &MockReconcileLock{Acquired: true}, events)

	err := uc.Execute(context.Background(), "ws_CO_1", "0")
	require.NoError(t, err)
	assert.Zero(t, payments.SwapCalls)
	assert.Empty(t, events.Published)
}

func TestReconcilePayment_TerminalStateNeverFlips(t *testing.T) {
	p := pendingPayment("ws_CO_1")
	p.Status = domain.PaymentCompleted
	payments := &MockPaymentRepo{Payments: map[string]*domain.Payment{"ws_CO_1": p}}
	uc := NewReconcilePayment(payments, &MockReconcileLock{Acquired: true}, &MockEventPublisher{})

	// A contradictory late delivery reports failure for a settled payment.
	err := uc.Execute(context.Background(), "ws_CO_1", "1032")
	require.NoError(t, err)
	assert.Zero(t, payments.SwapCalls)
	assert.Equal(t, domain.PaymentCompleted, p.Status)
}

func TestReconcilePayment_ConcurrentDeliveryTreatedAsDuplicate(t *testing.T) {
	payments := &MockPaymentRepo{
		Payments: map[string]*domain.Payment{"ws_CO_1": pendingPayment("ws_CO_1")},
		SwapOK:   true,
	}
	uc := NewReconcilePayment(payments, &MockReconcileLock{Acquired: false}, &MockEventPublisher{})

	err := uc.Execute(context.Background(), "ws_CO_1", "0")
	require.NoError(t, err)
	assert.Zero(t, payments.SwapCalls)
}

func TestReconcilePayment_LockReleasedOnRepoError(t *testing.T) {
	lock := &MockReconcileLock{Acquired: true}
	payments := &MockPaymentRepo{Payments: map[string]*domain.Payment{}}
	uc := NewReconcilePayment(payments, lock, &MockEventPublisher{})

	err := uc.Execute(context.Background(), "ws_CO_1", "0")
	require.Error(t, err)
	assert.Equal(t, []string{"ws_CO_1"}, lock.Released)
}

func TestReconcilePayment_LostRowRaceIsNoop(t *testing.T) {
	payments := &MockPaymentRepo{
		Payments: map[string]*domain.Payment{"ws_CO_1": pendingPayment("ws_CO_1")},
		SwapOK:   false, // another writer settled the row between read and swap
	}
	events := &MockEventPublisher{}
	uc := NewReconcilePayment(payments, &MockReconcileLock{Acquired: true}, events)

	err := uc.Execute(context.Background(), "ws_CO_1", "0")
	require.NoError(t, err)
	assert.Empty(t, events.Published)
}

func TestReconcilePayment_PublishFailureSwallowed(t *testing.T) {
	payments := &MockPaymentRepo{
		Payments: map[string]*domain.Payment{"ws_CO_1": pendingPayment("ws_CO_1")},
		SwapOK:   true,
	}
	uc := NewReconcilePayment(payments, &MockReconcileLock{Acquired: true}, &MockEventPublisher{Err: errBoom})

	err := uc.Execute(context.Background(), "ws_CO_1", "0")
	assert.NoError(t, err)
}
