package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CartRepository 账号购物车仓储。行项目的商品字段在读取时关联补齐。
type CartRepository interface {
	// ListByUser 返回用户全部行项目，商品字段已补齐，按加入时间排序。
	ListByUser(ctx context.Context, userID string) ([]LineItem, error)
	// GetQuantity 返回指定行的数量；行不存在时 found 为 false。
	GetQuantity(ctx context.Context, userID, productID string) (quantity int, found bool, err error)
	Insert(ctx context.Context, userID, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	Delete(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// GuestStore 游客购物车存储。键为游客令牌，值为 LineItem JSON 数组。
type GuestStore interface {
	// Get 不存在的键返回 nil 载荷而非错误。
	Get(ctx context.Context, token string) ([]byte, error)
	Set(ctx context.Context, token string, payload []byte) error
	Delete(ctx context.Context, token string) error
}

// ProductInfo 加入购物车时捕获的商品快照。
type ProductInfo struct {
	ProductID string
	Title     string
	UnitPrice decimal.Decimal
	ImageURL  string
}

// ProductReader 商品目录读取端口，用于加入时的价格捕获。
type ProductReader interface {
	Read(ctx context.Context, productID string) (*ProductInfo, error)
}

// Notifier 面向访客的一次性提示端口。发送失败不影响业务流程。
type Notifier interface {
	Notify(ctx context.Context, userKey, message string) error
}

// EventPublisher 购物车事件发布端口。购物车事件都在业务写入成功后发布，
// 不要求与业务写入同事务。
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
