package usecase

import (
	"context"
	"errors"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/shopspring/decimal"
)

// MockProductRepo implements ProductRepo for testing
type MockProductRepo struct {
	Products map[int64]*domain.Product
	Err      error
}

func (m *MockProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *MockProductRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*domain.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[int64]*domain.Product)
	for _, id := range ids {
		if p, ok := m.Products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *MockProductRepo) List(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.Products {
		out = append(out, *p)
	}
	return out, m.Err
}

func (m *MockProductRepo) Create(_ context.Context, _ *domain.Product) error { return m.Err }
func (m *MockProductRepo) Update(_ context.Context, _ *domain.Product) error { return m.Err }
func (m *MockProductRepo) ListUnverified(_ context.Context) ([]domain.Product, error) {
	return nil, m.Err
}

// MockOrderRepo implements OrderRepo for testing
type MockOrderRepo struct {
	CreatedOrder *domain.Order // captures the order passed to CreateWithItems
	CreateErr    error
	Orders       map[int64]*domain.Order
	Snapshots    []ItemSnapshot
	SnapshotsErr error

	UpdateStatusCalls []domain.Status
	UpdateStatusErr   error

	SwapOK  bool
	SwapErr error
}

func (m *MockOrderRepo) CreateWithItems(_ context.Context, o *domain.Order) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	o.ID = 42
	m.CreatedOrder = o
	return nil
}

func (m *MockOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := m.Orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *MockOrderRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.Orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.Orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *MockOrderRepo) UpdateStatus(_ context.Context, id int64, to domain.Status) error {
	if m.UpdateStatusErr != nil {
		return m.UpdateStatusErr
	}
	m.UpdateStatusCalls = append(m.UpdateStatusCalls, to)
	if o, ok := m.Orders[id]; ok {
		o.Status = to
	}
	return nil
}

func (m *MockOrderRepo) UpdateStatusIf(_ context.Context, _ int64, _, _ domain.Status) (bool, error) {
	return m.SwapOK, m.SwapErr
}

func (m *MockOrderRepo) ListItemSnapshots(_ context.Context) ([]ItemSnapshot, error) {
	return m.Snapshots, m.SnapshotsErr
}

// MockPaymentRepo implements PaymentRepo for testing
type MockPaymentRepo struct {
	CreatedPayment *domain.Payment
	CreateErr      error

	Payments map[string]*domain.Payment // keyed by transaction id

	SwapOK    bool
	SwapErr   error
	SwapFrom  domain.PaymentStatus
	SwapTo    domain.PaymentStatus
	SwapCalls int
}

func (m *MockPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	p.ID = 7
	m.CreatedPayment = p
	return nil
}

func (m *MockPaymentRepo) GetByTransactionID(_ context.Context, txID string) (*domain.Payment, error) {
	p, ok := m.Payments[txID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *MockPaymentRepo) UpdateStatusIf(_ context.Context, _ string, from, to domain.PaymentStatus) (bool, error) {
	m.SwapCalls++
	m.SwapFrom = from
	m.SwapTo = to
	return m.SwapOK, m.SwapErr
}

func (m *MockPaymentRepo) ListByUser(_ context.Context, _ int64) ([]domain.Payment, error) {
	return nil, nil
}

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	Sent []OrderConfirmationMsg
	Err  error
}

func (m *MockNotifier) EnqueueOrderConfirmation(_ context.Context, msg OrderConfirmationMsg) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// MockEventPublisher implements EventPublisher for testing
type MockEventPublisher struct {
	Published []PaymentStatusChangedMsg
	Err       error
}

func (m *MockEventPublisher) PublishPaymentStatusChanged(_ context.Context, msg PaymentStatusChangedMsg) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, msg)
	return nil
}

// MockReconcileLock implements ReconcileLock for testing
type MockReconcileLock struct {
	Acquired   bool
	LockErr    error
	Released   []string
	ReleaseErr error
}

func (m *MockReconcileLock) TryLock(_ context.Context, _ string) (bool, error) {
	return m.Acquired, m.LockErr
}

func (m *MockReconcileLock) Release(_ context.Context, txID string) error {
	m.Released = append(m.Released, txID)
	return m.ReleaseErr
}

// MockGateway implements PaymentGateway for testing
type MockGateway struct {
	Resp   *STKPushResponse
	Err    error
	Calls  int
	Phone  string
	Amount decimal.Decimal
}

func (m *MockGateway) STKPush(_ context.Context, phone string, amount decimal.Decimal) (*STKPushResponse, error) {
	m.Calls++
	m.Phone = phone
	m.Amount = amount
	return m.Resp, m.Err
}

var errBoom = errors.New("boom")
