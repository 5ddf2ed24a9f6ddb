package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/relato-crm/relato/internal/auth"
)

// Context keys for claims stored in gin.Context. Constants rather than
// inline strings so a typo fails to compile instead of silently returning
// nil from c.Get.
const (
	ContextKeyOwnerID = "owner_id"
	ContextKeyEmail   = "email"
)

// AuthMiddleware validates the bearer token and injects the authenticated
// owner id into the request context. Identity resolution happens exactly
// here — handlers and stores take the owner key as an explicit argument and
// never read ambient state, so there is no code path that touches a row
// without an owner having been resolved first.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization format, expected: Bearer <token>",
			})
			return
		}

		claims, err := auth.ParseToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyOwnerID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Next()
	}
}

// GetOwnerID returns the authenticated owner id, or uuid.Nil if the
// middleware didn't run. uuid.Nil matches no row, so a misconfigured route
// degrades to not-found rather than leaking anything.
func GetOwnerID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ContextKeyOwnerID)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func GetEmail(c *gin.Context) string {
	val, exists := c.Get(ContextKeyEmail)
	if !exists {
		return ""
	}
	email, ok := val.(string)
	if !ok {
		return ""
	}
	return email
}
