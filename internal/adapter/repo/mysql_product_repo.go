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

const productColumns = `id,name,description,price,stock,category_id,image_url,tag_number,
is_vaccinated,last_vaccination_date,health_certificate_url,vet_verified_by`

type MySQLProductRepo struct{ db *sql.DB }

func NewMySQLProductRepo(db *sql.DB) *MySQLProductRepo { return &MySQLProductRepo{db: db} }

func (r *MySQLProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM products WHERE id=?`, productColumns), id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByIDs returns only the products that exist; callers decide what a
// missing id means.
func (r *MySQLProductRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	out := make(map[int64]*domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM products WHERE id IN (%s)`, productColumns, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *MySQLProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.queryMany(ctx, fmt.Sprintf(`SELECT %s FROM products ORDER BY id`, productColumns))
}

// ListUnverified feeds the vet dashboard: listings without a vet sign-off or
// an up-to-date vaccination record.
func (r *MySQLProductRepo) ListUnverified(ctx context.Context) ([]domain.Product, error) {
	return r.queryMany(ctx, fmt.Sprintf(`
SELECT %s FROM products
WHERE vet_verified_by = '' OR is_vaccinated = FALSE
ORDER BY id`, productColumns))
}

func (r *MySQLProductRepo) Create(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO products (name,description,price,stock,category_id,image_url,tag_number,
is_vaccinated,last_vaccination_date,health_certificate_url,vet_verified_by)
VALUES (?,?,?,?,?,?,?,?,?,?,?)
`, p.Name, p.Description, p.Price.StringFixed(2), p.Stock, p.CategoryID, p.ImageURL,
		p.TagNumber, p.IsVaccinated, p.LastVaccinationDate, p.HealthCertificateURL, p.VetVerifiedBy)
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

func (r *MySQLProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products SET name=?,description=?,price=?,stock=?,category_id=?,image_url=?,tag_number=?,
is_vaccinated=?,last_vaccination_date=?,health_certificate_url=?,vet_verified_by=?
WHERE id=?
`, p.Name, p.Description, p.Price.StringFixed(2), p.Stock, p.CategoryID, p.ImageURL,
		p.TagNumber, p.IsVaccinated, p.LastVaccinationDate, p.HealthCertificateURL, p.VetVerifiedBy, p.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var n int
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE id=?`, p.ID).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return usecase.ErrNotFound
		}
	}
	return nil
}

func (r *MySQLProductRepo) queryMany(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var lastVacc sql.NullTime
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID,
		&p.ImageURL, &p.TagNumber, &p.IsVaccinated, &lastVacc,
		&p.HealthCertificateURL, &p.VetVerifiedBy); err != nil {
		return nil, err
	}
	if lastVacc.Valid {
		p.LastVaccinationDate = &lastVacc.Time
	}
	return &p, nil
}

var _ usecase.ProductRepo = (*MySQLProductRepo)(nil)
