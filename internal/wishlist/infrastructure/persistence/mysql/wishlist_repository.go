package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/stylehub/internal/wishlist/domain"
)

type wishlistRepository struct{ db *gorm.DB }

func NewWishlistRepository(db *gorm.DB) domain.WishlistRepository {
	return &wishlistRepository{db: db}
}

type entryRow struct {
	ProductID string
	Title     string
	Price     decimal.Decimal
	SalePrice *decimal.Decimal
	ImageURL  string
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID string) ([]domain.Entry, error) {
	var rows []entryRow
	err := r.db.WithContext(ctx).
		Table("wishlist_items").
		Select("products.product_id, products.title, products.price, products.sale_price, products.image_url").
		Joins("JOIN products ON products.product_id = wishlist_items.product_id AND products.deleted_at IS NULL").
		Where("wishlist_items.user_id = ? AND wishlist_items.deleted_at IS NULL", userID).
		Order("wishlist_items.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, row := range rows {
		price := row.Price
		if row.SalePrice != nil && row.SalePrice.LessThan(row.Price) {
			price = *row.SalePrice
		}
		entries = append(entries, domain.Entry{
			ProductID: row.ProductID,
			Title:     row.Title,
			UnitPrice: price,
			ImageURL:  row.ImageURL,
		})
	}
	return entries, nil
}

func (r *wishlistRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.EntryRecord{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *wishlistRepository) Insert(ctx context.Context, userID, productID string) error {
	return r.db.WithContext(ctx).Create(&domain.EntryRecord{
		UserID:    userID,
		ProductID: productID,
	}).Error
}

func (r *wishlistRepository) Delete(ctx context.Context, userID, productID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.EntryRecord{}).Error
}
