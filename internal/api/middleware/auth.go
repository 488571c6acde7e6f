package middleware

import (
	"Chillz/internal/pkg/response"
	"Chillz/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 验证身份服务签发的 JWT 并将用户 UID 注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set("user_uid", claims.UID)

		newCtx := context.WithValue(c.Request.Context(), "user_uid", claims.UID)
		c.Request = c.Request.WithContext(newCtx)

		c.Next()
	}
}

// CurrentUID 从 gin Context 取当前用户 UID
func CurrentUID(c *gin.Context) string {
	return c.GetString("user_uid")
}
