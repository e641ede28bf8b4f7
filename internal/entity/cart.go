package domain

import "github.com/shopspring/decimal"

// CartLine is one raw cart entry: a product reference plus a quantity.
// Nothing guarantees the referenced product still exists; resolution drops
// dangling references.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// NormalizeLines discards malformed entries (non-positive quantity or
// product id) from a replace-all cart write.
func NormalizeLines(lines []CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID <= 0 || l.Quantity < 1 {
			continue
		}
		out = append(out, l)
	}
	return out
}

// PricedLineItem is a cart line resolved against the catalog. UnitPrice is
// the catalog price at resolution time; it is not persisted.
type PricedLineItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type ResolvedCart struct {
	Items    []PricedLineItem `json:"items"`
	Subtotal decimal.Decimal  `json:"subtotal"`
	Tax      decimal.Decimal  `json:"tax"`
	Total    decimal.Decimal  `json:"total"`
}
