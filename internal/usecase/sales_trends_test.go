package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(ts string, price string, qty int) ItemSnapshot {
	t, _ := time.Parse("2006-01-02", ts)
	return ItemSnapshot{OrderCreatedAt: t, UnitPrice: dec(price), Quantity: qty}
}

func TestSalesTrends_GroupsByMonth(t *testing.T) {
	orders := &MockOrderRepo{Snapshots: []ItemSnapshot{
		snap("2026-01-05", "100.00", 2),
		snap("2026-01-20", "50.00", 1),
		snap("2026-02-02", "80.00", 3),
	}}
	uc := NewSalesTrends(orders)

	buckets, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	jan := buckets[0]
	assert.Equal(t, "2026-01", jan.Month)
	assert.Equal(t, "250.00", jan.TotalSales.StringFixed(2)) // 2x100 + 1x50
	assert.Equal(t, 2, jan.Count)

	feb := buckets[1]
	assert.Equal(t, "2026-02", feb.Month)
	assert.Equal(t, "240.00", feb.TotalSales.StringFixed(2))
	assert.Equal(t, 1, feb.Count)
}

func TestSalesTrends_AvgPriceIsUnweighted(t *testing.T) {
	// Quantities differ wildly; the mean of unit prices must ignore them.
	orders := &MockOrderRepo{Snapshots: []ItemSnapshot{
		snap("2026-03-01", "10.00", 100),
		snap("2026-03-15", "20.00", 1),
	}}
	uc := NewSalesTrends(orders)

	buckets, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "15.00", buckets[0].AvgPrice.StringFixed(2))
}

func TestSalesTrends_MonthsSortedAscending(t *testing.T) {
	orders := &MockOrderRepo{Snapshots: []ItemSnapshot{
		snap("2026-03-01", "10.00", 1),
		snap("2025-11-01", "10.00", 1),
		snap("2026-01-01", "10.00", 1),
	}}
	uc := NewSalesTrends(orders)

	buckets, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Equal(t, "2025-11", buckets[0].Month)
	assert.Equal(t, "2026-01", buckets[1].Month)
	assert.Equal(t, "2026-03", buckets[2].Month)
}

func TestSalesTrends_NoHistory(t *testing.T) {
	uc := NewSalesTrends(&MockOrderRepo{})

	buckets, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestSalesTrends_RepoErrorPropagates(t *testing.T) {
	uc := NewSalesTrends(&MockOrderRepo{SnapshotsErr: errBoom})

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, errBoom)
}
