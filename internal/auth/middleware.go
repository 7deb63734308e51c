package auth

import (
	"backend/internal/common"

	"github.com/gin-gonic/gin"
)

// ContextKey 上下文键类型
type ContextKey string

const (
	// UserContextKey 用户上下文键
	UserContextKey ContextKey = "user"
)

// UserContext 用户上下文
type UserContext struct {
	UserID    string
	SessionID string
}

// SessionMiddleware 会话认证中间件
// 从 Cookie 读取会话令牌，校验后将用户信息写入请求上下文
func SessionMiddleware(sessions *SessionService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			common.AbortWithError(c, common.CodeUnauthorized, "未认证，请先登录")
			return
		}

		session, err := sessions.GetByToken(c.Request.Context(), token)
		if err != nil {
			common.AbortWithError(c, common.CodeUnauthorized, "会话无效或已过期")
			return
		}

		c.Set(string(UserContextKey), &UserContext{
			UserID:    session.UserID,
			SessionID: session.ID,
		})

		c.Next()
	}
}

// GetUserContext 从 Gin Context 获取用户上下文
func GetUserContext(c *gin.Context) (*UserContext, bool) {
	userCtx, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil, false
	}

	ctx, ok := userCtx.(*UserContext)
	return ctx, ok
}
