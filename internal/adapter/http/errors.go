package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

// reqCtx derives a bounded context for one repository or gateway call.
func reqCtx(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

// respondError maps the error taxonomy onto HTTP statuses: client-fixable
// problems are 4xx with a structured body; upstream gateway failures are 502;
// anything else is an opaque 500.
func respondError(c *gin.Context, err error) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
		return
	}

	var gwerr *usecase.GatewayError
	if errors.As(err, &gwerr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
		return
	}

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, usecase.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
