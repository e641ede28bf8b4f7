package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaymentRepo struct {
	payments map[string]*domain.Payment
	swapped  bool
}

func (s *stubPaymentRepo) Create(_ context.Context, _ *domain.Payment) error { return nil }

func (s *stubPaymentRepo) GetByTransactionID(_ context.Context, txID string) (*domain.Payment, error) {
	p, ok := s.payments[txID]
	if !ok {
		return nil, usecase.ErrNotFound
	}
	return p, nil
}

func (s *stubPaymentRepo) UpdateStatusIf(_ context.Context, txID string, from, to domain.PaymentStatus) (bool, error) {
	p, ok := s.payments[txID]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	s.swapped = true
	return true, nil
}

func (s *stubPaymentRepo) ListByUser(_ context.Context, _ int64) ([]domain.Payment, error) {
	return nil, nil
}

type noopLock struct{}

func (noopLock) TryLock(_ context.Context, _ string) (bool, error) { return true, nil }
func (noopLock) Release(_ context.Context, _ string) error         { return nil }

type noopPublisher struct{}

func (noopPublisher) PublishPaymentStatusChanged(_ context.Context, _ usecase.PaymentStatusChangedMsg) error {
	return nil
}

func callbackRouter(repo *stubPaymentRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reconcile := usecase.NewReconcilePayment(repo, noopLock{}, noopPublisher{})
	h := NewPaymentHandler(nil, reconcile, repo, decimal.Zero)
	r := gin.New()
	r.POST("/api/mpesa/callback/", h.Callback)
	return r
}

func postCallback(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/mpesa/callback/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCallback_MatchedTransaction(t *testing.T) {
	repo := &stubPaymentRepo{payments: map[string]*domain.Payment{
		"ws_CO_1": {TransactionID: "ws_CO_1", Status: domain.PaymentPending},
	}}
	r := callbackRouter(repo)

	// ResultCode arrives as a JSON number.
	w := postCallback(t, r, `{"CheckoutRequestID":"ws_CO_1","ResultCode":0}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.swapped)
	assert.Equal(t, domain.PaymentCompleted, repo.payments["ws_CO_1"].Status)
}

func TestCallback_FailureCode(t *testing.T) {
	repo := &stubPaymentRepo{payments: map[string]*domain.Payment{
		"ws_CO_1": {TransactionID: "ws_CO_1", Status: domain.PaymentPending},
	}}
	r := callbackRouter(repo)

	w := postCallback(t, r, `{"CheckoutRequestID":"ws_CO_1","ResultCode":1032}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PaymentFailed, repo.payments["ws_CO_1"].Status)
}

func TestCallback_UnmatchedTransaction(t *testing.T) {
	r := callbackRouter(&stubPaymentRepo{payments: map[string]*domain.Payment{}})

	w := postCallback(t, r, `{"CheckoutRequestID":"ws_CO_ghost","ResultCode":0}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCallback_DuplicateDelivery(t *testing.T) {
	repo := &stubPaymentRepo{payments: map[string]*domain.Payment{
		"ws_CO_1": {TransactionID: "ws_CO_1", Status: domain.PaymentPending},
	}}
	r := callbackRouter(repo)

	first := postCallback(t, r, `{"CheckoutRequestID":"ws_CO_1","ResultCode":0}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := postCallback(t, r, `{"CheckoutRequestID":"ws_CO_1","ResultCode":0}`)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, domain.PaymentCompleted, repo.payments["ws_CO_1"].Status)
}

func TestCallback_StringResultCode(t *testing.T) {
	repo := &stubPaymentRepo{payments: map[string]*domain.Payment{
		"ws_CO_1": {TransactionID: "ws_CO_1", Status: domain.PaymentPending},
	}}
	r := callbackRouter(repo)

	w := postCallback(t, r, `{"CheckoutRequestID":"ws_CO_1","ResultCode":"0"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PaymentCompleted, repo.payments["ws_CO_1"].Status)
}

func TestNormalizeResultCode(t *testing.T) {
	assert.Equal(t, "0", normalizeResultCode(float64(0)))
	assert.Equal(t, "1032", normalizeResultCode(float64(1032)))
	assert.Equal(t, "0", normalizeResultCode("0"))
	assert.Equal(t, "", normalizeResultCode(nil))
}
