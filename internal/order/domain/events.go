package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPlacedEventType        = "order.placed"
	OrderStatusChangedEventType = "order.status.changed"
)

// OrderPlacedEvent 下单事件
type OrderPlacedEvent struct {
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id"`
	CustomerEmail string          `json:"customer_email"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	Timestamp     time.Time       `json:"timestamp"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
	Timestamp time.Time   `json:"timestamp"`
}
