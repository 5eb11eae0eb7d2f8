// Package session 访客会话解析：游客令牌与已登录用户的统一视图。
package session

import "context"

// User 由外部身份服务验证后的用户标识。
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Visitor 当前访客。匿名访客只有 GuestToken；登录后 User 非空。
type Visitor struct {
	GuestToken string
	User       *User
}

func (v Visitor) Authenticated() bool { return v.User != nil }

type visitorContextKey struct{}

// WithVisitor 将访客信息写入 context。
func WithVisitor(ctx context.Context, v Visitor) context.Context {
	return context.WithValue(ctx, visitorContextKey{}, v)
}

// FromContext 从 context 取访客信息；缺失时返回匿名空访客。
func FromContext(ctx context.Context) Visitor {
	if v, ok := ctx.Value(visitorContextKey{}).(Visitor); ok {
		return v
	}
	return Visitor{}
}
