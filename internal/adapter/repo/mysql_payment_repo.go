package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
)

type MySQLPaymentRepo struct{ db *sql.DB }

func NewMySQLPaymentRepo(db *sql.DB) *MySQLPaymentRepo { return &MySQLPaymentRepo{db: db} }

func (r *MySQLPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO payments (user_id,order_id,amount,status,transaction_id,payment_method,created_at)
VALUES (?,?,?,?,?,?,NOW())
`, p.UserID, p.OrderID, p.Amount.StringFixed(2), string(p.Status), p.TransactionID, p.PaymentMethod)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *MySQLPaymentRepo) GetByTransactionID(ctx context.Context, txID string) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,user_id,order_id,amount,status,transaction_id,payment_method,created_at
FROM payments WHERE transaction_id=?`, txID)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// UpdateStatusIf is the row-level guard against a callback flipping a settled
// payment: the swap only lands while the row is still in fromStatus.
func (r *MySQLPaymentRepo) UpdateStatusIf(ctx context.Context, txID string, from, to domain.PaymentStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE payments SET status=? WHERE transaction_id=? AND status=?`,
		string(to), txID, string(from))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *MySQLPaymentRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,user_id,order_id,amount,status,transaction_id,payment_method,created_at
FROM payments WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	var orderID sql.NullInt64
	var status string
	if err := row.Scan(&p.ID, &p.UserID, &orderID, &p.Amount, &status,
		&p.TransactionID, &p.PaymentMethod, &p.CreatedAt); err != nil {
		return nil, err
	}
	if orderID.Valid {
		p.OrderID = &orderID.Int64
	}
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}

var _ usecase.PaymentRepo = (*MySQLPaymentRepo)(nil)
