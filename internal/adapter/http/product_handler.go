package http

import (
	"net/http"
	"strconv"
	"time"

	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	products   usecase.ProductRepo
	categories usecase.CategoryRepo
}

func NewProductHandler(products usecase.ProductRepo, categories usecase.CategoryRepo) *ProductHandler {
	return &ProductHandler{products: products, categories: categories}
}

func (h *ProductHandler) List(c *gin.Context) {
	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	products, err := h.products.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productsJSON(products))
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	p, err := h.products.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productJSON(*p))
}

type productReq struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	Stock                int             `json:"stock"`
	Category             int64           `json:"category"`
	ImageURL             string          `json:"image_url"`
	TagNumber            string          `json:"tag_number"`
	IsVaccinated         bool            `json:"is_vaccinated"`
	LastVaccinationDate  *time.Time      `json:"last_vaccination_date"`
	HealthCertificateURL string          `json:"health_certificate_url"`
	VetVerifiedBy        string          `json:"vet_verified_by"`
}

func (r productReq) validate() *usecase.ValidationError {
	verr := usecase.NewValidationError()
	if r.Name == "" {
		verr.Add("name", "required")
	}
	if !r.Price.IsPositive() {
		verr.Add("price", "must be positive")
	}
	if r.Stock < 0 {
		verr.Add("stock", "must not be negative")
	}
	if r.Category <= 0 {
		verr.Add("category", "required")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

func (r productReq) toDomain() *domain.Product {
	return &domain.Product{
		Name:                 r.Name,
		Description:          r.Description,
		Price:                r.Price,
		Stock:                r.Stock,
		CategoryID:           r.Category,
		ImageURL:             r.ImageURL,
		TagNumber:            r.TagNumber,
		IsVaccinated:         r.IsVaccinated,
		LastVaccinationDate:  r.LastVaccinationDate,
		HealthCertificateURL: r.HealthCertificateURL,
		VetVerifiedBy:        r.VetVerifiedBy,
	}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if verr := req.validate(); verr != nil {
		respondError(c, verr)
		return
	}

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	p := req.toDomain()
	if err := h.products.Create(ctx, p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productJSON(*p))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if verr := req.validate(); verr != nil {
		respondError(c, verr)
		return
	}

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	p := req.toDomain()
	p.ID = id
	if err := h.products.Update(ctx, p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productJSON(*p))
}

// VetDashboard lists products still awaiting veterinary verification.
func (h *ProductHandler) VetDashboard(c *gin.Context) {
	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	products, err := h.products.ListUnverified(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pending_verification": productsJSON(products),
		"count":                len(products),
	})
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	cats, err := h.categories.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(cats))
	for _, cat := range cats {
		out = append(out, gin.H{"id": cat.ID, "name": cat.Name})
	}
	c.JSON(http.StatusOK, out)
}

type categoryReq struct {
	Name string `json:"name"`
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	cat := &domain.Category{Name: req.Name}
	if err := h.categories.Create(ctx, cat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": cat.ID, "name": cat.Name})
}

func productJSON(p domain.Product) gin.H {
	return gin.H{
		"id":                     p.ID,
		"name":                   p.Name,
		"description":            p.Description,
		"price":                  p.Price,
		"stock":                  p.Stock,
		"category":               p.CategoryID,
		"image_url":              p.ImageURL,
		"tag_number":             p.TagNumber,
		"is_vaccinated":          p.IsVaccinated,
		"last_vaccination_date":  p.LastVaccinationDate,
		"health_certificate_url": p.HealthCertificateURL,
		"vet_verified_by":        p.VetVerifiedBy,
	}
}

func productsJSON(products []domain.Product) []gin.H {
	out := make([]gin.H, 0, len(products))
	for _, p := range products {
		out = append(out, productJSON(p))
	}
	return out
}
