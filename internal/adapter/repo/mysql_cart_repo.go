package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
)

// MySQLCartRepo stores one cart row per user. The items column is a JSON
// array of {product_id, quantity}; every write replaces it wholesale, so two
// devices writing concurrently last-write-wins.
type MySQLCartRepo struct{ db *sql.DB }

func NewMySQLCartRepo(db *sql.DB) *MySQLCartRepo { return &MySQLCartRepo{db: db} }

func (r *MySQLCartRepo) Get(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT items FROM carts WHERE user_id=?`, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		// A cart that no longer parses is treated as empty rather than
		// poisoning every read.
		return []domain.CartLine{}, nil
	}
	return lines, nil
}

func (r *MySQLCartRepo) Replace(ctx context.Context, userID int64, lines []domain.CartLine) error {
	raw, err := json.Marshal(domain.NormalizeLines(lines))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO carts (user_id,items,updated_at) VALUES (?,?,NOW())
ON DUPLICATE KEY UPDATE items=VALUES(items), updated_at=NOW()`, userID, raw)
	return err
}

var _ usecase.UserCartRepo = (*MySQLCartRepo)(nil)
