package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/stylehub/internal/catalog/domain"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Title       string
	Description string
	Brand       string
	Category    string
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	ImageURL    string
	Stock       int
	SellerID    string
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	ProductID   string
	SellerID    string
	Title       string
	Description string
	Brand       string
	Category    string
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	ImageURL    string
	Stock       int
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	repo      domain.ProductRepository
	publisher domain.EventPublisher
}

// NewCatalogCommandService 创建商品目录命令服务实例
func NewCatalogCommandService(repo domain.ProductRepository, publisher domain.EventPublisher) *CatalogCommandService {
	return &CatalogCommandService{repo: repo, publisher: publisher}
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (string, error) {
	product := &domain.Product{
		ProductID:   uuid.NewString(),
		Title:       cmd.Title,
		Description: cmd.Description,
		Brand:       cmd.Brand,
		Category:    cmd.Category,
		Price:       cmd.Price,
		SalePrice:   cmd.SalePrice,
		ImageURL:    cmd.ImageURL,
		Stock:       cmd.Stock,
		SellerID:    cmd.SellerID,
	}
	if err := product.Validate(); err != nil {
		return "", err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return "", err
	}

	event := domain.ProductCreatedEvent{
		ProductID: product.ProductID,
		Title:     product.Title,
		Category:  product.Category,
		Price:     product.EffectivePrice(),
		SellerID:  product.SellerID,
		Timestamp: time.Now(),
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, domain.ProductCreatedEventType, product.ProductID, event)
	}

	return product.ProductID, nil
}

// UpdateProduct 处理更新商品，仅限商品所属卖家。
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) error {
	product, err := s.repo.GetByProductID(ctx, cmd.ProductID)
	if err != nil {
		return err
	}
	if product.SellerID != cmd.SellerID {
		return domain.ErrNotProductOwner
	}

	oldPrice := product.EffectivePrice()

	product.Title = cmd.Title
	product.Description = cmd.Description
	product.Brand = cmd.Brand
	product.Category = cmd.Category
	product.Price = cmd.Price
	product.SalePrice = cmd.SalePrice
	product.ImageURL = cmd.ImageURL
	product.Stock = cmd.Stock
	if err := product.Validate(); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}

	event := domain.ProductUpdatedEvent{
		ProductID: product.ProductID,
		Title:     product.Title,
		Category:  product.Category,
		Price:     product.EffectivePrice(),
		SellerID:  product.SellerID,
		Timestamp: time.Now(),
	}
	_ = s.publisher.Publish(ctx, domain.ProductUpdatedEventType, product.ProductID, event)

	if !oldPrice.Equal(product.EffectivePrice()) {
		priceEvent := domain.ProductPriceChangedEvent{
			ProductID: product.ProductID,
			OldPrice:  oldPrice,
			NewPrice:  product.EffectivePrice(),
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.ProductPriceChangedEventType, product.ProductID, priceEvent)
	}

	return nil
}

// DeleteProduct 处理删除商品，仅限商品所属卖家。
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, productID, sellerID string) error {
	product, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return err
	}
	if product.SellerID != sellerID {
		return domain.ErrNotProductOwner
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	if s.publisher != nil {
		event := domain.ProductDeletedEvent{
			ProductID: productID,
			SellerID:  sellerID,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.ProductDeletedEventType, productID, event)
	}
	return nil
}
