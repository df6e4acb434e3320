package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aihub-dev/aihub_go_server/internal/pkg/jwt"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/response"
	"github.com/aihub-dev/aihub_go_server/internal/service"
)

// AuthOrAPIKey 同时接受 JWT 和 X-API-Key 两种凭证。
// API Key 命中时把 key ID 也放进上下文，供审计记录关联。
func AuthOrAPIKey(jwtSecret string, apiKeyService *service.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
			userID, keyID, err := apiKeyService.Validate(apiKey)
			if err != nil {
				response.AuthError(c, "Invalid API key")
				c.Abort()
				return
			}
			c.Set(UserIDKey, userID)
			c.Set(APIKeyIDKey, keyID)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "Authentication required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}
