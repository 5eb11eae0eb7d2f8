package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/stylehub/internal/cart/domain"
)

type cartRepository struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

type lineRow struct {
	ProductID string
	Title     string
	Price     decimal.Decimal
	SalePrice *decimal.Decimal
	ImageURL  string
	Quantity  int
}

func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]domain.LineItem, error) {
	var rows []lineRow
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("products.product_id, products.title, products.price, products.sale_price, products.image_url, cart_items.quantity").
		Joins("JOIN products ON products.product_id = cart_items.product_id AND products.deleted_at IS NULL").
		Where("cart_items.user_id = ? AND cart_items.deleted_at IS NULL", userID).
		Order("cart_items.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.LineItem, 0, len(rows))
	for _, row := range rows {
		price := row.Price
		if row.SalePrice != nil && row.SalePrice.LessThan(row.Price) {
			price = *row.SalePrice
		}
		items = append(items, domain.LineItem{
			ProductID: row.ProductID,
			Title:     row.Title,
			UnitPrice: price,
			ImageURL:  row.ImageURL,
			Quantity:  row.Quantity,
		})
	}
	return items, nil
}

func (r *cartRepository) GetQuantity(ctx context.Context, userID, productID string) (int, bool, error) {
	var record domain.CartItemRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return record.Quantity, true, nil
}

func (r *cartRepository) Insert(ctx context.Context, userID, productID string, quantity int) error {
	return r.db.WithContext(ctx).Create(&domain.CartItemRecord{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}).Error
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&domain.CartItemRecord{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity).Error
}

func (r *cartRepository) Delete(ctx context.Context, userID, productID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.CartItemRecord{}).Error
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.CartItemRecord{}).Error
}
