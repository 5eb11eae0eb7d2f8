// Package domain 订单领域模型。
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart         = errors.New("order: cart is empty")
	ErrNotAuthenticated  = errors.New("order: authentication required")
	ErrNotOrderOwner     = errors.New("order: not order owner")
	ErrNotOrderSeller    = errors.New("order: no items from this seller")
	ErrInvalidTransition = errors.New("order: invalid status transition")
)

// OrderStatus 订单状态。
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

var legalTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// Order 订单实体。
type Order struct {
	gorm.Model
	OrderID         string          `gorm:"column:order_id;type:varchar(36);uniqueIndex;not null" json:"order_id"`
	UserID          string          `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	CustomerName    string          `gorm:"column:customer_name;type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"column:customer_email;type:varchar(255);not null" json:"customer_email"`
	ShippingAddress string          `gorm:"column:shipping_address;type:varchar(512)" json:"shipping_address"`
	Status          OrderStatus     `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	Total           decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null" json:"total"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;references:OrderID" json:"items"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 下单时固化的购物车行快照。
type OrderItem struct {
	gorm.Model
	OrderID   string          `gorm:"column:order_id;type:varchar(36);index;not null" json:"order_id"`
	ProductID string          `gorm:"column:product_id;type:varchar(36);index;not null" json:"product_id"`
	Title     string          `gorm:"column:title;type:varchar(255);not null" json:"title"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }

// CanTransition 检查状态迁移是否合法。
func (o *Order) CanTransition(to OrderStatus) bool {
	for _, next := range legalTransitions[o.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition 执行状态迁移，非法迁移返回 ErrInvalidTransition。
func (o *Order) Transition(to OrderStatus) error {
	if !o.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	return nil
}

// ItemCount 件数合计。
func (o *Order) ItemCount() int {
	var n int
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}
