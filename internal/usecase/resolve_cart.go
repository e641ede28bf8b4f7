package usecase

import (
	"context"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/shopspring/decimal"
)

// TaxRate is the VAT rate applied to every resolved cart.
var TaxRate = decimal.NewFromFloat(0.16)

// ResolveCart prices raw cart lines against the current catalog.
type ResolveCart struct {
	products ProductRepo
}

func NewResolveCart(products ProductRepo) *ResolveCart {
	return &ResolveCart{products: products}
}

// Execute looks up each referenced product and computes line subtotals, the
// cart subtotal, 16% tax, and the grand total, each rounded to 2 decimals.
// Lines referencing a missing product are dropped without error. An empty or
// fully-dangling cart resolves to zero totals.
func (uc *ResolveCart) Execute(ctx context.Context, lines []domain.CartLine) (domain.ResolvedCart, error) {
	lines = domain.NormalizeLines(lines)

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		return domain.ResolvedCart{}, err
	}

	items := make([]domain.PricedLineItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			continue // dangling reference: contributes nothing
		}
		lineSub := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
		items = append(items, domain.PricedLineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  l.Quantity,
			Subtotal:  lineSub,
		})
		subtotal = subtotal.Add(lineSub)
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	return domain.ResolvedCart{
		Items:    items,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax).Round(2),
	}, nil
}
