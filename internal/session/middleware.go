package session

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wyfcoding/pkg/logging"
)

// GuestCookie 游客令牌 cookie 名。
const GuestCookie = "stylehub_guest"

const guestCookieMaxAge = 30 * 24 * 60 * 60

// Merger 观察登录事件：游客会话首次携带已验证身份时触发一次性合并。
type Merger interface {
	OnSignIn(ctx context.Context, guestToken string, user User) error
}

// Middleware 解析访客并在登录事件发生时驱动合并。
// 合并在本次请求内同步完成，全部成功后游客 cookie 才被清除；
// 任一合并失败则保留 cookie，下一次已登录请求重试。
func Middleware(provider Provider, mergers ...Merger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := provider.ResolveUser(c.Request)

		token, _ := c.Cookie(GuestCookie)

		switch {
		case user == nil && token == "":
			token = uuid.NewString()
			c.SetCookie(GuestCookie, token, guestCookieMaxAge, "/", "", false, true)

		case user != nil && token != "":
			// 登录事件：游客数据迁移到账号。
			ctx := c.Request.Context()
			merged := true
			for _, m := range mergers {
				if err := m.OnSignIn(ctx, token, *user); err != nil {
					merged = false
					logging.Error(ctx, "guest session merge failed",
						"guest_token", token, "user_id", user.ID, "error", err)
				}
			}
			if merged {
				c.SetCookie(GuestCookie, "", -1, "/", "", false, true)
				token = ""
			}
		}

		v := Visitor{GuestToken: token, User: user}
		c.Request = c.Request.WithContext(WithVisitor(c.Request.Context(), v))
		c.Next()
	}
}
