package repo

import (
	"context"
	"database/sql"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
)

type MySQLReviewRepo struct{ db *sql.DB }

func NewMySQLReviewRepo(db *sql.DB) *MySQLReviewRepo { return &MySQLReviewRepo{db: db} }

func (r *MySQLReviewRepo) Create(ctx context.Context, rev *domain.Review) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (product_id,user_id,rating,comment,created_at)
VALUES (?,?,?,?,NOW())
`, rev.ProductID, rev.UserID, rev.Rating, rev.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = id
	return nil
}

func (r *MySQLReviewRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,product_id,user_id,rating,comment,created_at
FROM reviews WHERE product_id=? ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

var _ usecase.ReviewRepo = (*MySQLReviewRepo)(nil)
