package domain

import "context"

// ProductRepository 商品仓储接口。
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByProductID(ctx context.Context, productID string) (*Product, error)
	GetByProductIDs(ctx context.Context, productIDs []string) ([]*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*Product, error)
	Delete(ctx context.Context, productID string) error
}

// ViewedStore 每个访客最近浏览商品的 MRU 列表。
type ViewedStore interface {
	// Push 将商品移到列表头部（去重），并裁剪到 max 条。
	Push(ctx context.Context, key, productID string, max int) error
	List(ctx context.Context, key string) ([]string, error)
	Clear(ctx context.Context, key string) error
}
