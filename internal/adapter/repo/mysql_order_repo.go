package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

// CreateWithItems commits header and items in one transaction; a failing
// item insert rolls back the whole order.
func (r *MySQLOrderRepo) CreateWithItems(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
INSERT INTO orders (user_id,customer_name,customer_email,phone_number,shipping_address,status,created_at)
VALUES (?,?,?,?,?,?,NOW())
`, o.UserID, o.CustomerName, o.CustomerEmail, o.PhoneNumber, o.ShippingAddress, string(o.Status))
	if err != nil {
		return err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range o.Items {
		it := &o.Items[i]
		res, err := tx.ExecContext(ctx, `
INSERT INTO order_items (order_id,product_id,product_name,unit_price,quantity)
VALUES (?,?,?,?,?)
`, orderID, it.ProductID, it.ProductName, it.UnitPrice.StringFixed(2), it.Quantity)
		if err != nil {
			return err
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		it.ID = itemID
		it.OrderID = orderID
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	o.ID = orderID
	return nil
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,user_id,customer_name,customer_email,phone_number,shipping_address,status,created_at
FROM orders WHERE id=?`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, []*domain.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *MySQLOrderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return r.list(ctx, `
SELECT id,user_id,customer_name,customer_email,phone_number,shipping_address,status,created_at
FROM orders WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
}

func (r *MySQLOrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `
SELECT id,user_id,customer_name,customer_email,phone_number,shipping_address,status,created_at
FROM orders ORDER BY created_at DESC, id DESC`)
}

func (r *MySQLOrderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	out := make([]domain.Order, len(orders))
	for i, o := range orders {
		out[i] = *o
	}
	return out, nil
}

func (r *MySQLOrderRepo) UpdateStatus(ctx context.Context, id int64, to domain.Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status=? WHERE id=?`, string(to), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Distinguish "missing" from "already in that status".
		var n int
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE id=?`, id).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return usecase.ErrNotFound
		}
	}
	return nil
}

func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id int64, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders SET status=? WHERE id=? AND status=?`, string(to), id, string(from))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// rows == 0 → nothing matched (either not found or status mismatch)
	return rows > 0, nil
}

func (r *MySQLOrderRepo) ListItemSnapshots(ctx context.Context) ([]usecase.ItemSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT o.created_at, i.unit_price, i.quantity
FROM order_items i JOIN orders o ON o.id = i.order_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usecase.ItemSnapshot
	for rows.Next() {
		var s usecase.ItemSnapshot
		if err := rows.Scan(&s.OrderCreatedAt, &s.UnitPrice, &s.Quantity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var userID sql.NullInt64
	var status string
	if err := row.Scan(&o.ID, &userID, &o.CustomerName, &o.CustomerEmail,
		&o.PhoneNumber, &o.ShippingAddress, &status, &o.CreatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		o.UserID = &userID.Int64
	}
	o.Status = domain.Status(status)
	return &o, nil
}

func (r *MySQLOrderRepo) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Order, len(orders))
	args := make([]any, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		args = append(args, o.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT id,order_id,product_id,product_name,unit_price,quantity
FROM order_items WHERE order_id IN (%s) ORDER BY id`, placeholders), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.UnitPrice, &it.Quantity); err != nil {
			return err
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
