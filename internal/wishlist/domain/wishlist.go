// Package domain 心愿单领域模型。
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNotAuthenticated 匿名访客对仅限登录的收藏集发起写操作。
var ErrNotAuthenticated = errors.New("wishlist: authentication required")

// Entry 心愿单条目。集合语义，无数量字段。
type Entry struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
}

// EntryRecord 心愿单持久化行。商品字段读取时关联 products 补齐。
type EntryRecord struct {
	gorm.Model
	UserID    string `gorm:"column:user_id;type:varchar(36);index:idx_wishlist_user_product,unique;not null"`
	ProductID string `gorm:"column:product_id;type:varchar(36);index:idx_wishlist_user_product,unique;not null"`
}

func (EntryRecord) TableName() string { return "wishlist_items" }

// WishlistRepository 心愿单仓储。
type WishlistRepository interface {
	// ListByUser 返回用户全部条目，商品字段已补齐，按收藏时间排序。
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	Exists(ctx context.Context, userID, productID string) (bool, error)
	Insert(ctx context.Context, userID, productID string) error
	Delete(ctx context.Context, userID, productID string) error
}
