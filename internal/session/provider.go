package session

import "net/http"

// Provider 解析请求中的已验证身份。认证本身委托给上游网关/托管身份服务，
// 本服务只消费其结果。
type Provider interface {
	// ResolveUser 返回请求对应的用户，未登录返回 nil。
	ResolveUser(r *http.Request) *User
}

// HeaderProvider 信任网关注入的身份头（X-User-Id / X-User-Email）。
// 网关在验证托管身份服务签发的令牌后注入这两个头。
type HeaderProvider struct {
	IDHeader    string
	EmailHeader string
}

func NewHeaderProvider() *HeaderProvider {
	return &HeaderProvider{IDHeader: "X-User-Id", EmailHeader: "X-User-Email"}
}

func (p *HeaderProvider) ResolveUser(r *http.Request) *User {
	id := r.Header.Get(p.IDHeader)
	if id == "" {
		return nil
	}
	return &User{ID: id, Email: r.Header.Get(p.EmailHeader)}
}
