package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CartItemAddedEventType = "cart.item.added"
	CartClearedEventType   = "cart.cleared"
	CartMergedEventType    = "cart.merged"
)

// CartItemAddedEvent 购物车添加商品事件
type CartItemAddedEvent struct {
	UserKey   string          `json:"user_key"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Timestamp time.Time       `json:"timestamp"`
}

// CartClearedEvent 购物车清空事件
type CartClearedEvent struct {
	UserKey   string    `json:"user_key"`
	Timestamp time.Time `json:"timestamp"`
}

// CartMergedEvent 游客购物车并入账号事件
type CartMergedEvent struct {
	UserID     string    `json:"user_id"`
	GuestToken string    `json:"guest_token"`
	Migrated   int       `json:"migrated"`
	Timestamp  time.Time `json:"timestamp"`
}
