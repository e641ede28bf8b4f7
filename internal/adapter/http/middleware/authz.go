package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/ezra-kip/farmlink-api/configs"
	domain "github.com/ezra-kip/farmlink-api/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID = "auth_user_id"
	ctxRole   = "auth_role"
)

type Authz struct {
	cfg configs.Config
}

func NewAuthz(cfg configs.Config) *Authz {
	return &Authz{cfg: cfg}
}

// Require checks the bearer token and ensures the caller holds one of the
// allowed roles. With no roles listed, any authenticated user passes.
func (a *Authz) Require(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := a.identity(c)
		if !ok {
			unauth(c, "invalid_token", "missing or invalid bearer token")
			return
		}
		if len(roles) > 0 && !roleAllowed(role, roles) {
			forbidden(c, "insufficient_role", "role not permitted for this resource")
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		c.Next()
	}
}

// Optional attaches the caller's identity when a valid token is present but
// lets anonymous requests through (guest checkout).
func (a *Authz) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, role, ok := a.identity(c); ok {
			c.Set(ctxUserID, userID)
			c.Set(ctxRole, role)
		}
		c.Next()
	}
}

func (a *Authz) identity(c *gin.Context) (int64, domain.Role, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, "", false
	}

	raw := strings.TrimPrefix(auth, "Bearer ")
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(a.cfg.Security.JWTSecret), nil
	}, jwt.WithLeeway(30*time.Second)) // small clock skew
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	if claims["iss"] != a.cfg.Security.Issuer || claims["aud"] != a.cfg.Security.Audience {
		return 0, "", false
	}

	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, "", false
	}
	role, _ := claims["role"].(string)
	return int64(uid), domain.Role(role), true
}

func roleAllowed(have domain.Role, want []domain.Role) bool {
	for _, r := range want {
		if have == r {
			return true
		}
	}
	return false
}

// UserID returns the authenticated user's id, if any.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// Role returns the authenticated user's role, or empty.
func Role(c *gin.Context) domain.Role {
	v, ok := c.Get(ctxRole)
	if !ok {
		return ""
	}
	r, _ := v.(domain.Role)
	return r
}

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code, "error_description": desc})
}

func forbidden(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": code, "error_description": desc})
}
