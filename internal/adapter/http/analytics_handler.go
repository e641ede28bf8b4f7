package http

import (
	"net/http"
	"time"

	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AnalyticsHandler struct {
	trends *usecase.SalesTrends
	orders usecase.OrderRepo
}

func NewAnalyticsHandler(trends *usecase.SalesTrends, orders usecase.OrderRepo) *AnalyticsHandler {
	return &AnalyticsHandler{trends: trends, orders: orders}
}

func (h *AnalyticsHandler) SalesTrends(c *gin.Context) {
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	buckets, err := h.trends.Execute(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// Dashboard rolls the monthly trends up into one summary payload.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	buckets, err := h.trends.Execute(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	revenue := decimal.Zero
	for _, b := range buckets {
		revenue = revenue.Add(b.TotalSales)
	}
	byStatus := map[string]int{}
	for i := range orders {
		byStatus[string(orders[i].Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"sales_trends":     buckets,
		"total_orders":     len(orders),
		"total_revenue":    revenue.Round(2),
		"orders_by_status": byStatus,
	})
}
