package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/logging"
)

type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

type CreateOrderInput struct {
	UserID          *int64 // nil for guest checkout
	CustomerName    string
	CustomerEmail   string
	PhoneNumber     string
	ShippingAddress string
	Items           []OrderItemInput
}

type CreateOrder struct {
	orders   OrderRepo
	products ProductRepo
	notify   Notifier
}

func NewCreateOrder(orders OrderRepo, products ProductRepo, notify Notifier) *CreateOrder {
	return &CreateOrder{orders: orders, products: products, notify: notify}
}

// Execute validates the submission, snapshots the catalog price onto every
// line, and persists header plus items atomically. The confirmation message
// is enqueued after the commit; a dispatch failure is logged and swallowed,
// never rolling back the order.
func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	verr := NewValidationError()
	if strings.TrimSpace(in.CustomerName) == "" {
		verr.Add("customer_name", "required")
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		verr.Add("customer_email", "required")
	} else if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
		verr.Add("customer_email", "invalid email address")
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		verr.Add("shipping_address", "required")
	}
	if len(in.Items) == 0 {
		verr.Add("items", "at least one item required")
	}

	ids := make([]int64, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity < 1 {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
		ids = append(ids, it.ProductID)
	}

	products, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, it := range in.Items {
		if _, ok := products[it.ProductID]; !ok {
			verr.Add(fmt.Sprintf("items[%d].product", i), fmt.Sprintf("product %d does not exist", it.ProductID))
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	order := &domain.Order{
		UserID:          in.UserID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		PhoneNumber:     in.PhoneNumber,
		ShippingAddress: in.ShippingAddress,
		Status:          domain.StatusPending,
	}
	for _, it := range in.Items {
		p := products[it.ProductID]
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price, // snapshot: later catalog edits must not drift history
			Quantity:    it.Quantity,
		})
	}

	if err := uc.orders.CreateWithItems(ctx, order); err != nil {
		return nil, err
	}

	// Best effort. The order stands regardless of what happens here.
	if err := uc.notify.EnqueueOrderConfirmation(ctx, OrderConfirmationMsg{
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
	}); err != nil {
		logging.FromCtx(ctx).Warn("order confirmation enqueue failed",
			"order_id", order.ID, "error", err)
	}

	return order, nil
}
