package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/ezra-kip/farmlink-api/configs"
	"github.com/ezra-kip/farmlink-api/internal/security"
	"github.com/ezra-kip/farmlink-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type TokenHandler struct {
	cfg   configs.Config
	users usecase.UserRepo
}

func NewTokenHandler(cfg configs.Config, users usecase.UserRepo) *TokenHandler {
	return &TokenHandler{cfg: cfg, users: users}
}

type tokenReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IssueToken exchanges email+password for a bearer token carrying the user's
// id and role.
func (h *TokenHandler) IssueToken(c *gin.Context) {
	var req tokenReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	ctx, cancel := reqCtx(c, 2*time.Second)
	defer cancel()

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}
	if !security.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  h.cfg.Security.Issuer,
		"aud":  h.cfg.Security.Audience,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(h.cfg.Security.TTL).Unix(),
		"uid":  user.ID,
		"role": string(user.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(h.cfg.Security.TTL.Seconds()),
	})
}
