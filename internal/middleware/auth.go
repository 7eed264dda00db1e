package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/talkwave/talkwave-backend/internal/common"
	"github.com/talkwave/talkwave-backend/internal/identity"
	"github.com/talkwave/talkwave-backend/pkg/jwt"
)

// JWTAuth JWT authentication middleware. On success the caller's
// resolved identity is stored in the request context; handlers read it
// with GetIdentity and pass it explicitly into service calls.
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set("email", claims.Email)
		c.Set("name", claims.Name)

		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header, falling
// back to the "token" query parameter for WebSocket upgrades where
// custom headers are unavailable.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}

// GetIdentity builds the caller identity from the request context
func GetIdentity(c *gin.Context) (identity.Identity, bool) {
	email := c.GetString("email")
	if email == "" {
		return identity.Identity{}, false
	}
	return identity.New(email, c.GetString("name")), true
}
