package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/stylehub/internal/catalog/domain"
)

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByProductIDs(ctx context.Context, productIDs []string) ([]*domain.Product, error) {
	if len(productIDs) == 0 {
		return []*domain.Product{}, nil
	}
	var products []*domain.Product
	err := r.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&products).Error
	return products, err
}

func (r *productRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).Find(&products).Error
	return products, err
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepository) Delete(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.Product{}).Error
}
