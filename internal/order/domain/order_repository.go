package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SellerOrderSummary 卖家视角的订单摘要。
type SellerOrderSummary struct {
	OrderID      string          `json:"order_id"`
	Status       OrderStatus     `json:"status"`
	CustomerName string          `json:"customer_name"`
	ItemCount    int             `json:"item_count"`
	Total        decimal.Decimal `json:"total"`
	PlacedAt     time.Time       `json:"placed_at"`
}

// OrderRepository 订单仓储。
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	GetByOrderID(ctx context.Context, orderID string) (*Order, error)
	// ListByUser 买家订单历史，最新的在前。
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	// ListBySeller 包含某卖家商品的订单摘要，最新的在前。
	ListBySeller(ctx context.Context, sellerID string) ([]SellerOrderSummary, error)
	// SellerHasItems 订单中是否包含某卖家的商品。
	SellerHasItems(ctx context.Context, orderID, sellerID string) (bool, error)
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) error
	// WithTx 在单个数据库事务内执行 fn，事务通过 context 传递。
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 订单事件发布端口。
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}
