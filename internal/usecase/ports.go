package usecase

import (
	"context"
	"time"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/shopspring/decimal"
)

type ProductRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// GetByIDs returns the subset of requested products that exist, keyed by id.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	ListUnverified(ctx context.Context) ([]domain.Product, error)
}

type CategoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
}

type OrderRepo interface {
	// CreateWithItems persists the header and every item in one transaction.
	CreateWithItems(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, to domain.Status) error
	// UpdateStatusIf performs a guarded transition; false means the order was
	// missing or not in fromStatus.
	UpdateStatusIf(ctx context.Context, id int64, from, to domain.Status) (bool, error)
	// ListItemSnapshots returns every order line with its owning order's
	// creation time, for analytics.
	ListItemSnapshots(ctx context.Context) ([]ItemSnapshot, error)
}

// ItemSnapshot is one historical order line as the analytics aggregator
// sees it.
type ItemSnapshot struct {
	OrderCreatedAt time.Time
	UnitPrice      decimal.Decimal
	Quantity       int
}

type PaymentRepo interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByTransactionID(ctx context.Context, txID string) (*domain.Payment, error)
	// UpdateStatusIf is a compare-and-swap on the payment row; false means the
	// row was not in fromStatus anymore.
	UpdateStatusIf(ctx context.Context, txID string, from, to domain.PaymentStatus) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Payment, error)
}

// GuestCartStore holds session-scoped carts with an expiry.
type GuestCartStore interface {
	Get(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Replace(ctx context.Context, sessionID string, lines []domain.CartLine) error
}

// UserCartRepo holds the per-user persistent cart. Writes are whole-object
// replacements; concurrent writers last-write-wins.
type UserCartRepo interface {
	Get(ctx context.Context, userID int64) ([]domain.CartLine, error)
	Replace(ctx context.Context, userID int64, lines []domain.CartLine) error
}

type ReviewRepo interface {
	Create(ctx context.Context, r *domain.Review) error
	ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
}

type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Notifier enqueues best-effort customer notifications. Errors are the
// caller's to swallow.
type Notifier interface {
	EnqueueOrderConfirmation(ctx context.Context, msg OrderConfirmationMsg) error
}

// EventPublisher emits payment lifecycle events for downstream consumers.
type EventPublisher interface {
	PublishPaymentStatusChanged(ctx context.Context, msg PaymentStatusChangedMsg) error
}

// ReconcileLock serializes concurrent callbacks for one transaction id.
type ReconcileLock interface {
	TryLock(ctx context.Context, txID string) (bool, error)
	Release(ctx context.Context, txID string) error
}

// PaymentGateway is the Daraja-facing port.
type PaymentGateway interface {
	STKPush(ctx context.Context, phone string, amount decimal.Decimal) (*STKPushResponse, error)
}

// STKPushResponse is the gateway's immediate synchronous answer, returned to
// the caller verbatim.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// StatusCache is a best-effort read cache for order status.
type StatusCache interface {
	SetStatus(ctx context.Context, orderID int64, status string) error
	GetStatus(ctx context.Context, orderID int64) (string, error)
}
