package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sociograph/internal/service"
	"github.com/d60-Lab/sociograph/pkg/response"
)

// CtxUserID gin 上下文里已认证用户 id 的键
const CtxUserID = "user_id"

// Auth 从 httponly cookie 里取 token 并解析出用户身份
func Auth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil || token == "" {
			response.Unauthorized(c, "authentication required")
			return
		}
		userID, err := authService.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(CtxUserID, userID)
		c.Next()
	}
}

// UserID 取当前请求的已认证用户 id；必须在 Auth 之后调用
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
