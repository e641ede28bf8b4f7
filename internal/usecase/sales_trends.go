package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// MonthBucket is one month of sales history.
type MonthBucket struct {
	Month      string          `json:"month"` // YYYY-MM
	TotalSales decimal.Decimal `json:"total_sales"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
	Count      int             `json:"count"`
}

type SalesTrends struct {
	orders OrderRepo
}

func NewSalesTrends(orders OrderRepo) *SalesTrends {
	return &SalesTrends{orders: orders}
}

// Execute groups every historical order line by the owning order's creation
// month. total_sales sums unit_price x quantity; avg_price is the plain mean
// of per-line unit prices, deliberately not quantity-weighted. Recomputed on
// every call.
func (uc *SalesTrends) Execute(ctx context.Context) ([]MonthBucket, error) {
	rows, err := uc.orders.ListItemSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	type acc struct {
		total    decimal.Decimal
		priceSum decimal.Decimal
		count    int
	}
	byMonth := map[string]*acc{}
	for _, r := range rows {
		month := r.OrderCreatedAt.Format("2006-01")
		a, ok := byMonth[month]
		if !ok {
			a = &acc{total: decimal.Zero, priceSum: decimal.Zero}
			byMonth[month] = a
		}
		a.total = a.total.Add(r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity))))
		a.priceSum = a.priceSum.Add(r.UnitPrice)
		a.count++
	}

	out := make([]MonthBucket, 0, len(byMonth))
	for month, a := range byMonth {
		out = append(out, MonthBucket{
			Month:      month,
			TotalSales: a.total.Round(2),
			AvgPrice:   a.priceSum.Div(decimal.NewFromInt(int64(a.count))).Round(2),
			Count:      a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
