package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/laikahq/audit_backend/config"
	"github.com/laikahq/audit_backend/models"
	"github.com/laikahq/audit_backend/utils"
)

// requestToken pulls the session token from the "token" header, falling
// back to an Authorization bearer token for API clients.
func requestToken(c *gin.Context) string {
	if token := c.Request.Header.Get("token"); token != "" {
		return token
	}
	auth := c.Request.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// jwtUsername resolves a signed API token to its user's username.
func jwtUsername(ctx context.Context, token string) (string, bool) {
	validated, err := utils.JwtValidate(token)
	if err != nil || !validated.Valid {
		return "", false
	}
	claim, ok := validated.Claims.(*utils.JwtCustomClaim)
	if !ok {
		return "", false
	}

	db := config.GetDB()
	var user models.User
	if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", claim.ID).Take(&user).Error; err != nil {
		return "", false
	}
	return user.Username, true
}

// SessionMiddleware resolves the caller's identity. Opaque session tokens
// issued at login are looked up in redis; signed API tokens are validated
// directly. Requests without a token pass through anonymous.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			c.Next()
			return
		}

		username, exists, err := config.GetRedisValue("Token:" + token)
		if err != nil || !exists {
			jwtName, ok := jwtUsername(c.Request.Context(), token)
			if !ok {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				c.Abort()
				return
			}
			username = jwtName
		}

		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyToken, token)
		ctx = context.WithValue(ctx, utils.ContextKeyUsername, username)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
