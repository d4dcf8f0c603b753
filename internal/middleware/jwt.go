package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"cafe_ordering/internal/utils" // Token claims

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by JWTAuthMiddleware
const (
	KeyUserID = "userID"
	KeyEmail  = "email"
	KeyRole   = "role"
)

// TokenVerifier turns a bearer token into claims
type TokenVerifier interface {
	VerifyToken(token string) (*utils.Claims, error)
}

// JWTAuthMiddleware validates bearer tokens and stores the caller's identity in the context
func JWTAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header", "code": "invalid_token"})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := verifier.VerifyToken(tokenStr)
		if err != nil {
			// Expired and tampered tokens get the same answer
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "code": "invalid_token"})
			return
		}
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or 0 outside JWTAuthMiddleware
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(KeyUserID)
}

// CurrentRole returns the role claimed by the token
func CurrentRole(c *gin.Context) string {
	return c.GetString(KeyRole)
}
