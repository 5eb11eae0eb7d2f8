// Package domain 商品目录的领域模型。
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidProduct  = errors.New("catalog: invalid product")
	ErrNotProductOwner = errors.New("catalog: not product owner")
)

// Product 商品实体。
type Product struct {
	gorm.Model
	// ProductID 商品业务 ID。
	ProductID string `gorm:"column:product_id;type:varchar(36);uniqueIndex;not null" json:"product_id"`
	// Title 商品标题。
	Title string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	// Description 商品描述。
	Description string `gorm:"column:description;type:text" json:"description"`
	// Brand 品牌。
	Brand string `gorm:"column:brand;type:varchar(100);index" json:"brand"`
	// Category 类目。
	Category string `gorm:"column:category;type:varchar(100);index" json:"category"`
	// Price 标价。
	Price decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	// SalePrice 促销价，可为空。
	SalePrice *decimal.Decimal `gorm:"column:sale_price;type:decimal(12,2)" json:"sale_price"`
	// ImageURL 主图地址。
	ImageURL string `gorm:"column:image_url;type:varchar(512)" json:"image_url"`
	// Stock 库存。
	Stock int `gorm:"column:stock;not null;default:0" json:"stock"`
	// SellerID 卖家 ID。
	SellerID string `gorm:"column:seller_id;type:varchar(36);index;not null" json:"seller_id"`
	// LikeCount 点赞数，用于热度排序。
	LikeCount int `gorm:"column:like_count;not null;default:0" json:"like_count"`
}

func (Product) TableName() string { return "products" }

// OnSale 促销价存在且低于标价时才视为促销中。
func (p *Product) OnSale() bool {
	return p.SalePrice != nil && p.SalePrice.LessThan(p.Price)
}

// EffectivePrice 实际成交单价：促销中取促销价，否则取标价。
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.OnSale() {
		return *p.SalePrice
	}
	return p.Price
}

// Validate 持久化前的基本校验。
func (p *Product) Validate() error {
	if p.ProductID == "" || p.Title == "" || p.Category == "" || p.SellerID == "" {
		return ErrInvalidProduct
	}
	if !p.Price.IsPositive() {
		return ErrInvalidProduct
	}
	if p.SalePrice != nil && !p.SalePrice.IsPositive() {
		return ErrInvalidProduct
	}
	if p.Stock < 0 {
		return ErrInvalidProduct
	}
	return nil
}
