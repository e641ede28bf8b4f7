package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ezra-kip/farmlink-api/internal/adapter/http/middleware"
	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	create       *usecase.CreateOrder
	updateStatus *usecase.UpdateOrderStatus
	query        usecase.OrderRepo
}

func NewOrderHandler(create *usecase.CreateOrder, updateStatus *usecase.UpdateOrderStatus, query usecase.OrderRepo) *OrderHandler {
	return &OrderHandler{create: create, updateStatus: updateStatus, query: query}
}

type orderItemReq struct {
	Product  int64 `json:"product"`
	Quantity int   `json:"quantity"`
}

type createOrderReq struct {
	CustomerName    string         `json:"customer_name"`
	CustomerEmail   string         `json:"customer_email"`
	PhoneNumber     string         `json:"phone_number"`
	ShippingAddress string         `json:"shipping_address"`
	Items           []orderItemReq `json:"items"`
}

// CreateOrder accepts guest and authenticated submissions alike; field-level
// validation happens in the use case so the 400 body can name each problem.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	in := usecase.CreateOrderInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		PhoneNumber:     req.PhoneNumber,
		ShippingAddress: req.ShippingAddress,
	}
	if userID, ok := middleware.UserID(c); ok {
		in.UserID = &userID
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.OrderItemInput{ProductID: it.Product, Quantity: it.Quantity})
	}

	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	order, err := h.create.Execute(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   orderJSON(order),
	})
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	orders, err := h.query.ListByUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersJSON(orders))
}

func (h *OrderHandler) AdminOrders(c *gin.Context) {
	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	orders, err := h.query.ListAll(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersJSON(orders))
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	status, err := h.updateStatus.Execute(ctx, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order status updated",
		"order_id": orderID,
		"status":   status,
	})
}

func orderJSON(o *domain.Order) gin.H {
	items := make([]gin.H, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, gin.H{
			"product":      it.ProductID,
			"product_name": it.ProductName,
			"unit_price":   it.UnitPrice,
			"quantity":     it.Quantity,
			"line_total":   it.LineTotal(),
		})
	}
	out := gin.H{
		"id":               o.ID,
		"customer_name":    o.CustomerName,
		"customer_email":   o.CustomerEmail,
		"phone_number":     o.PhoneNumber,
		"shipping_address": o.ShippingAddress,
		"status":           o.Status,
		"items":            items,
		"total":            o.Total(),
		"created_at":       o.CreatedAt,
	}
	if o.UserID != nil {
		out["user"] = *o.UserID
	}
	return out
}

func ordersJSON(orders []domain.Order) []gin.H {
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	return out
}
