package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductCreatedEventType      = "product.created"
	ProductUpdatedEventType      = "product.updated"
	ProductDeletedEventType      = "product.deleted"
	ProductPriceChangedEventType = "product.price.changed"
)

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	SellerID  string          `json:"seller_id"`
	Timestamp time.Time       `json:"timestamp"`
}

// ProductUpdatedEvent 商品更新事件
type ProductUpdatedEvent struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	SellerID  string          `json:"seller_id"`
	Timestamp time.Time       `json:"timestamp"`
}

// ProductDeletedEvent 商品删除事件
type ProductDeletedEvent struct {
	ProductID string    `json:"product_id"`
	SellerID  string    `json:"seller_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductPriceChangedEvent 商品实际成交价变更事件
type ProductPriceChangedEvent struct {
	ProductID string          `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	Timestamp time.Time       `json:"timestamp"`
}
