package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ezra-kip/farmlink-api/internal/adapter/http/middleware"
	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

type ReportHandler struct {
	orders   usecase.OrderRepo
	products usecase.ProductRepo
}

func NewReportHandler(orders usecase.OrderRepo, products usecase.ProductRepo) *ReportHandler {
	return &ReportHandler{orders: orders, products: products}
}

// SalesCSV streams every order as one CSV row. Totals come from the price
// snapshots taken at order time, so re-running the report after a catalog
// price change yields the same numbers.
func (h *ReportHandler) SalesCSV(c *gin.Context) {
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Order ID", "Date", "Customer", "Total", "Status"})
	for i := range orders {
		o := &orders[i]
		_ = w.Write([]string{
			strconv.FormatInt(o.ID, 10),
			o.CreatedAt.Format("2006-01-02 15:04:05"),
			o.CustomerName,
			o.Total().StringFixed(2),
			string(o.Status),
		})
	}
	w.Flush()

	c.Header("Content-Disposition", `attachment; filename="sales_report.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *ReportHandler) InventoryCSV(c *gin.Context) {
	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	products, err := h.products.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Product ID", "Name", "Category", "Stock", "Price"})
	for _, p := range products {
		_ = w.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			strconv.FormatInt(p.CategoryID, 10),
			strconv.Itoa(p.Stock),
			p.Price.StringFixed(2),
		})
	}
	w.Flush()

	c.Header("Content-Disposition", `attachment; filename="inventory_report.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// Receipt renders one order as a PDF, for the owner or an admin.
func (h *ReportHandler) Receipt(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	ctx, cancel := reqCtx(c, 3*time.Second)
	defer cancel()

	order, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	if middleware.Role(c) != domain.RoleAdmin {
		if order.UserID == nil || *order.UserID != userID {
			respondError(c, usecase.ErrForbidden)
			return
		}
	}

	pdf, err := receiptPDF(order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt_%d.pdf"`, order.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// MyOrdersPDF renders the caller's entire order history as a line-item table.
func (h *ReportHandler) MyOrdersPDF(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c, 5*time.Second)
	defer cancel()

	orders, err := h.orders.ListByUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := ordersPDF("My Orders Report", orders)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="my_orders_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func receiptPDF(order *domain.Order) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, fmt.Sprintf("FarmLink Receipt - Order #%d", order.ID))
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 7, "Customer: "+order.CustomerName)
	doc.Ln(7)
	doc.Cell(0, 7, "Date: "+order.CreatedAt.Format("2006-01-02"))
	doc.Ln(7)
	doc.Cell(0, 7, "Status: "+string(order.Status))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(80, 8, "Product", "1", 0, "", false, 0, "")
	doc.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 8, "Unit Price", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 8, "Total", "1", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	for _, it := range order.Items {
		doc.CellFormat(80, 8, it.ProductName, "1", 0, "", false, 0, "")
		doc.CellFormat(25, 8, strconv.Itoa(it.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 8, it.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 8, it.LineTotal().StringFixed(2), "1", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(140, 8, "Grand Total", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 8, order.Total().StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ordersPDF(title string, orders []domain.Order) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, title)
	doc.Ln(12)

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(20, 8, "Order", "1", 0, "", false, 0, "")
	doc.CellFormat(28, 8, "Date", "1", 0, "", false, 0, "")
	doc.CellFormat(62, 8, "Product", "1", 0, "", false, 0, "")
	doc.CellFormat(15, 8, "Qty", "1", 0, "R", false, 0, "")
	doc.CellFormat(30, 8, "Price", "1", 0, "R", false, 0, "")
	doc.CellFormat(30, 8, "Status", "1", 1, "", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for i := range orders {
		o := &orders[i]
		for _, it := range o.Items {
			doc.CellFormat(20, 8, strconv.FormatInt(o.ID, 10), "1", 0, "", false, 0, "")
			doc.CellFormat(28, 8, o.CreatedAt.Format("2006-01-02"), "1", 0, "", false, 0, "")
			doc.CellFormat(62, 8, it.ProductName, "1", 0, "", false, 0, "")
			doc.CellFormat(15, 8, strconv.Itoa(it.Quantity), "1", 0, "R", false, 0, "")
			doc.CellFormat(30, 8, it.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
			doc.CellFormat(30, 8, string(o.Status), "1", 1, "", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
