// Package catalogbridge 购物车到商品目录的读取适配。
package catalogbridge

import (
	"context"

	cartdomain "github.com/wyfcoding/stylehub/internal/cart/domain"
	"github.com/wyfcoding/stylehub/internal/catalog/application"
)

type productReader struct {
	query *application.CatalogQueryService
}

func NewProductReader(query *application.CatalogQueryService) cartdomain.ProductReader {
	return &productReader{query: query}
}

func (r *productReader) Read(ctx context.Context, productID string) (*cartdomain.ProductInfo, error) {
	product, err := r.query.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &cartdomain.ProductInfo{
		ProductID: product.ProductID,
		Title:     product.Title,
		UnitPrice: product.EffectivePrice(),
		ImageURL:  product.ImageURL,
	}, nil
}
