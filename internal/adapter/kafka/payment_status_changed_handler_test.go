package kafka

import (
	"context"
	"testing"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderRepo struct {
	moved     bool
	fromCall  domain.Status
	toCall    domain.Status
	calledFor int64
	swapOK    bool
}

func (s *stubOrderRepo) CreateWithItems(_ context.Context, _ *domain.Order) error { return nil }
func (s *stubOrderRepo) GetByID(_ context.Context, _ int64) (*domain.Order, error) {
	return nil, usecase.ErrNotFound
}
func (s *stubOrderRepo) ListByUser(_ context.Context, _ int64) ([]domain.Order, error) {
	return nil, nil
}
func (s *stubOrderRepo) ListAll(_ context.Context) ([]domain.Order, error)        { return nil, nil }
func (s *stubOrderRepo) UpdateStatus(_ context.Context, _ int64, _ domain.Status) error {
	return nil
}

func (s *stubOrderRepo) UpdateStatusIf(_ context.Context, id int64, from, to domain.Status) (bool, error) {
	s.moved = true
	s.calledFor = id
	s.fromCall = from
	s.toCall = to
	return s.swapOK, nil
}

func (s *stubOrderRepo) ListItemSnapshots(_ context.Context) ([]usecase.ItemSnapshot, error) {
	return nil, nil
}

type stubStatusCache struct {
	set map[int64]string
}

func (s *stubStatusCache) SetStatus(_ context.Context, orderID int64, status string) error {
	if s.set == nil {
		s.set = map[int64]string{}
	}
	s.set[orderID] = status
	return nil
}

func (s *stubStatusCache) GetStatus(_ context.Context, _ int64) (string, error) {
	return "", usecase.ErrNotFound
}

func TestHandle_CompletedPaymentAdvancesOrder(t *testing.T) {
	repo := &stubOrderRepo{swapOK: true}
	cache := &stubStatusCache{}
	h := NewPaymentStatusChangedHandler(repo, cache)

	orderID := int64(11)
	err := h.Handle(context.Background(), usecase.PaymentStatusChangedMsg{
		TransactionID: "ws_CO_1",
		OrderID:       &orderID,
		Status:        "completed",
	})
	require.NoError(t, err)

	assert.True(t, repo.moved)
	assert.Equal(t, int64(11), repo.calledFor)
	assert.Equal(t, domain.StatusPending, repo.fromCall)
	assert.Equal(t, domain.StatusProcessing, repo.toCall)
	assert.Equal(t, "processing", cache.set[11])
}

func TestHandle_FailedPaymentLeavesOrderAlone(t *testing.T) {
	repo := &stubOrderRepo{}
	h := NewPaymentStatusChangedHandler(repo, nil)

	orderID := int64(11)
	err := h.Handle(context.Background(), usecase.PaymentStatusChangedMsg{
		OrderID: &orderID,
		Status:  "failed",
	})
	require.NoError(t, err)
	assert.False(t, repo.moved)
}

func TestHandle_NoLinkedOrder(t *testing.T) {
	repo := &stubOrderRepo{}
	h := NewPaymentStatusChangedHandler(repo, nil)

	err := h.Handle(context.Background(), usecase.PaymentStatusChangedMsg{
		TransactionID: "ws_CO_1",
		Status:        "completed",
	})
	require.NoError(t, err)
	assert.False(t, repo.moved)
}

func TestHandle_AlreadyAdvancedOrderSkipsCache(t *testing.T) {
	repo := &stubOrderRepo{swapOK: false}
	cache := &stubStatusCache{}
	h := NewPaymentStatusChangedHandler(repo, cache)

	orderID := int64(11)
	err := h.Handle(context.Background(), usecase.PaymentStatusChangedMsg{
		OrderID: &orderID,
		Status:  "completed",
	})
	require.NoError(t, err)
	assert.Empty(t, cache.set)
}
