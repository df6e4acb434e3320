package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aihub-dev/aihub_go_server/internal/pkg/jwt"
	"github.com/aihub-dev/aihub_go_server/internal/pkg/response"
)

const (
	UserIDKey   = "userID"
	APIKeyIDKey = "apiKeyID"
)

// Auth JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
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

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// GetAPIKeyID 从上下文获取 API Key ID，JWT 登录的请求返回 nil
func GetAPIKeyID(c *gin.Context) *int64 {
	v, exists := c.Get(APIKeyIDKey)
	if !exists {
		return nil
	}
	id, ok := v.(int64)
	if !ok {
		return nil
	}
	return &id
}
