package usecase

import (
	"context"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
)

type UpdateOrderStatus struct {
	orders OrderRepo
}

func NewUpdateOrderStatus(orders OrderRepo) *UpdateOrderStatus {
	return &UpdateOrderStatus{orders: orders}
}

// Execute applies an explicit admin status change. A value outside the enum
// is rejected before the store is touched, so the stored status is unchanged.
func (uc *UpdateOrderStatus) Execute(ctx context.Context, orderID int64, rawStatus string) (domain.Status, error) {
	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return "", ErrInvalidStatus
	}
	if err := uc.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return "", err
	}
	return status, nil
}
