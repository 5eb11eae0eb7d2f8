package application

import (
	"context"

	"github.com/wyfcoding/pkg/logging"

	"github.com/wyfcoding/stylehub/internal/catalog/domain"
)

// MaxRecentlyViewed 每个访客保留的最近浏览条数上限。
const MaxRecentlyViewed = 8

// RecentlyViewedService 最近浏览商品服务。
// 列表按最近访问在前排序，同一商品只出现一次。
type RecentlyViewedService struct {
	store domain.ViewedStore
	repo  domain.ProductRepository
}

func NewRecentlyViewedService(store domain.ViewedStore, repo domain.ProductRepository) *RecentlyViewedService {
	return &RecentlyViewedService{store: store, repo: repo}
}

// MarkViewed 记录一次商品浏览。记录失败只降级为日志，不影响浏览本身。
func (s *RecentlyViewedService) MarkViewed(ctx context.Context, visitorKey, productID string) {
	if visitorKey == "" || productID == "" {
		return
	}
	if err := s.store.Push(ctx, visitorKey, productID, MaxRecentlyViewed); err != nil {
		logging.Warn(ctx, "failed to record recently viewed",
			"visitor", visitorKey, "product_id", productID, "error", err)
	}
}

// List 返回最近浏览的商品，保持 MRU 顺序；已下架的商品被跳过。
func (s *RecentlyViewedService) List(ctx context.Context, visitorKey string) ([]*domain.Product, error) {
	ids, err := s.store.List(ctx, visitorKey)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}

	products, err := s.repo.GetByProductIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	ordered := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// Clear 清空访客的浏览记录。
func (s *RecentlyViewedService) Clear(ctx context.Context, visitorKey string) error {
	return s.store.Clear(ctx, visitorKey)
}
