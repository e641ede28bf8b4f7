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

type ReviewHandler struct {
	reviews  usecase.ReviewRepo
	products usecase.ProductRepo
}

func NewReviewHandler(reviews usecase.ReviewRepo, products usecase.ProductRepo) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, products: products}
}

func (h *ReviewHandler) ListForProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	reviews, err := h.reviews.ListByProduct(ctx, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, gin.H{
			"id":         r.ID,
			"product":    r.ProductID,
			"user":       r.UserID,
			"rating":     r.Rating,
			"comment":    r.Comment,
			"created_at": r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

type reviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	userID, _ := middleware.UserID(c)
	review := &domain.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if !review.ValidRating() {
		verr := usecase.NewValidationError()
		verr.Add("rating", "must be between 1 and 5")
		respondError(c, verr)
		return
	}

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	// The product must exist before a review can hang off it.
	if _, err := h.products.GetByID(ctx, productID); err != nil {
		respondError(c, err)
		return
	}
	if err := h.reviews.Create(ctx, review); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":      review.ID,
		"product": review.ProductID,
		"rating":  review.Rating,
		"comment": review.Comment,
	})
}
