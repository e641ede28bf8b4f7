package http

import (
	"net/http"
	"time"

	"github.com/ezra-kip/farmlink-api/internal/adapter/http/middleware"
	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "farmlink_session"

// CartHandler serves both cart flavors: the guest cart (session cookie,
// Redis-backed with expiry) and the persistent per-user cart. Both use
// replace-all write semantics.
type CartHandler struct {
	guest   usecase.GuestCartStore
	users   usecase.UserCartRepo
	resolve *usecase.ResolveCart
}

func NewCartHandler(guest usecase.GuestCartStore, users usecase.UserCartRepo, resolve *usecase.ResolveCart) *CartHandler {
	return &CartHandler{guest: guest, users: users, resolve: resolve}
}

type cartUpdateReq struct {
	Items []domain.CartLine `json:"items"`
}

func (h *CartHandler) sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetCookie(sessionCookie, sid, int((72 * time.Hour).Seconds()), "/", "", false, true)
	return sid
}

func (h *CartHandler) GetGuestCart(c *gin.Context) {
	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	lines, err := h.guest.Get(ctx, h.sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondResolved(c, lines)
}

func (h *CartHandler) UpdateGuestCart(c *gin.Context) {
	var req cartUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	if err := h.guest.Replace(ctx, h.sessionID(c), req.Items); err != nil {
		respondError(c, err)
		return
	}
	h.respondResolved(c, domain.NormalizeLines(req.Items))
}

func (h *CartHandler) GetUserCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	lines, err := h.users.Get(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondResolved(c, lines)
}

func (h *CartHandler) UpdateUserCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req cartUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	if err := h.users.Replace(ctx, userID, req.Items); err != nil {
		respondError(c, err)
		return
	}
	h.respondResolved(c, domain.NormalizeLines(req.Items))
}

func (h *CartHandler) respondResolved(c *gin.Context, lines []domain.CartLine) {
	resolved, err := h.resolve.Execute(c.Request.Context(), lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    resolved.Items,
		"subtotal": resolved.Subtotal,
		"tax":      resolved.Tax,
		"total":    resolved.Total,
	})
}
