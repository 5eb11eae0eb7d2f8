package application

import (
	"context"

	"github.com/wyfcoding/stylehub/internal/order/domain"
)

// OrderQueryService 处理订单相关的查询操作
type OrderQueryService struct {
	repo domain.OrderRepository
}

// NewOrderQueryService 创建新的 OrderQueryService 实例
func NewOrderQueryService(repo domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{repo: repo}
}

// GetOrder 订单详情，仅限买家本人。
func (s *OrderQueryService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrNotOrderOwner
	}
	return order, nil
}

// ListByUser 买家订单历史，最新的在前。
func (s *OrderQueryService) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListForSeller 包含该卖家商品的订单摘要。
func (s *OrderQueryService) ListForSeller(ctx context.Context, sellerID string) ([]domain.SellerOrderSummary, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}
