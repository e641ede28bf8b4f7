package http

import (
	"github.com/ezra-kip/farmlink-api/internal/adapter/http/middleware"
	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Token     *TokenHandler
	Cart      *CartHandler
	Order     *OrderHandler
	Payment   *PaymentHandler
	Product   *ProductHandler
	Review    *ReviewHandler
	Report    *ReportHandler
	Analytics *AnalyticsHandler
}

func NewRouter(h Handlers, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())
	r.Use(middleware.Logging(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		logging.From(c).Info("health check")
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", h.Token.IssueToken)

	// Session-cookie cart for anonymous shoppers.
	r.GET("/api/cart/", h.Cart.GetGuestCart)
	r.POST("/api/cart/", h.Cart.UpdateGuestCart)
	r.GET("/api/persistent-cart/", authz.Require(), h.Cart.GetUserCart)
	r.POST("/api/persistent-cart/", authz.Require(), h.Cart.UpdateUserCart)

	// Checkout is open to guests; an attached identity links the order.
	r.POST("/orders/", authz.Optional(), h.Order.CreateOrder)
	r.GET("/my-orders/", authz.Require(), h.Order.MyOrders)
	r.GET("/orders/:id/receipt/", authz.Require(), h.Report.Receipt)

	api := r.Group("/api")
	{
		api.POST("/mpesa/stk-push/", authz.Require(), h.Payment.StkPush)
		// The gateway posts here; auth is the unguessable CheckoutRequestID.
		api.POST("/mpesa/callback/", h.Payment.Callback)
		api.GET("/payments/mine/", authz.Require(), h.Payment.ListMine)

		api.GET("/products/", h.Product.List)
		api.GET("/products/:id/", h.Product.Get)
		api.POST("/products/", authz.Require(domain.RoleAdmin, domain.RoleVet), h.Product.Create)
		api.PUT("/products/:id/", authz.Require(domain.RoleAdmin, domain.RoleVet), h.Product.Update)

		api.GET("/categories/", h.Product.ListCategories)
		api.POST("/categories/", authz.Require(domain.RoleAdmin), h.Product.CreateCategory)

		api.GET("/products/:id/reviews/", h.Review.ListForProduct)
		api.POST("/products/:id/reviews/", authz.Require(), h.Review.Create)

		api.GET("/seller/products/", authz.Require(domain.RoleVet, domain.RoleAdmin), h.Product.List)
		api.GET("/vet/dashboard/", authz.Require(domain.RoleVet), h.Product.VetDashboard)

		api.PATCH("/orders/:id/status/", authz.Require(domain.RoleAdmin), h.Order.UpdateStatus)
		api.GET("/admin/orders/", authz.Require(domain.RoleAdmin), h.Order.AdminOrders)

		api.GET("/reports/sales/", authz.Require(domain.RoleAdmin), h.Report.SalesCSV)
		api.GET("/reports/inventory/", authz.Require(domain.RoleAdmin), h.Report.InventoryCSV)
		api.GET("/reports/my-orders/", authz.Require(), h.Report.MyOrdersPDF)

		api.GET("/analytics/sales-trends/", authz.Require(), h.Analytics.SalesTrends)
		api.GET("/analytics/dashboard/", authz.Require(), h.Analytics.Dashboard)
	}

	return r
}
