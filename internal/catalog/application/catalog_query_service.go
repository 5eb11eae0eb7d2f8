package application

import (
	"context"

	"github.com/wyfcoding/stylehub/internal/catalog/domain"
)

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	repo domain.ProductRepository
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(repo domain.ProductRepository) *CatalogQueryService {
	return &CatalogQueryService{repo: repo}
}

// GetProduct 根据商品 ID 获取商品
func (s *CatalogQueryService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repo.GetByProductID(ctx, productID)
}

// ListProducts 按筛选与排序列出商品并分页。
// 目录规模在店面场景下较小，取全量后在内存中做纯函数筛排。
func (s *CatalogQueryService) ListProducts(ctx context.Context, filter domain.Filter, sortBy domain.Sort, page, size int) ([]*domain.Product, int, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := domain.FilterSort(all, filter, sortBy)
	total := len(filtered)

	if size <= 0 {
		return filtered, total, nil
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= total {
		return []*domain.Product{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

// ListBySeller 列出某卖家的全部商品
func (s *CatalogQueryService) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}
