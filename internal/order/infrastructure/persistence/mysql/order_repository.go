package mysql

import (
	"context"

	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"

	"github.com/wyfcoding/stylehub/internal/order/domain"
)

type orderRepository struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.getDB(ctx).WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order
	err := r.getDB(ctx).WithContext(ctx).
		Preload("Items").
		Where("order_id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.getDB(ctx).WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.SellerOrderSummary, error) {
	var orders []*domain.Order
	err := r.getDB(ctx).WithContext(ctx).
		Preload("Items").
		Where("order_id IN (?)", r.getDB(ctx).
			Table("order_items").
			Select("DISTINCT order_items.order_id").
			Joins("JOIN products ON products.product_id = order_items.product_id").
			Where("products.seller_id = ? AND order_items.deleted_at IS NULL", sellerID)).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.SellerOrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, domain.SellerOrderSummary{
			OrderID:      order.OrderID,
			Status:       order.Status,
			CustomerName: order.CustomerName,
			ItemCount:    order.ItemCount(),
			Total:        order.Total,
			PlacedAt:     order.CreatedAt,
		})
	}
	return summaries, nil
}

func (r *orderRepository) SellerHasItems(ctx context.Context, orderID, sellerID string) (bool, error) {
	var count int64
	err := r.getDB(ctx).WithContext(ctx).
		Table("order_items").
		Joins("JOIN products ON products.product_id = order_items.product_id").
		Where("order_items.order_id = ? AND products.seller_id = ? AND order_items.deleted_at IS NULL", orderID, sellerID).
		Count(&count).Error
	return count > 0, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	return r.getDB(ctx).WithContext(ctx).
		Model(&domain.Order{}).
		Where("order_id = ?", orderID).
		Update("status", status).Error
}
