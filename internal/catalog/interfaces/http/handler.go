package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
	"gorm.io/gorm"

	"github.com/wyfcoding/stylehub/internal/catalog/application"
	"github.com/wyfcoding/stylehub/internal/catalog/domain"
	"github.com/wyfcoding/stylehub/internal/session"
)

// CatalogHandler HTTP 处理器
// 负责处理商品目录相关的 HTTP 请求
type CatalogHandler struct {
	cmd    *application.CatalogCommandService
	query  *application.CatalogQueryService
	viewed *application.RecentlyViewedService
}

// 创建 HTTP 处理器实例
func NewCatalogHandler(cmd *application.CatalogCommandService, query *application.CatalogQueryService, viewed *application.RecentlyViewedService) *CatalogHandler {
	return &CatalogHandler{cmd: cmd, query: query, viewed: viewed}
}

// 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1")
	{
		api.GET("/products", h.ListProducts)       // 商品列表
		api.GET("/products/:id", h.GetProduct)     // 商品详情
		api.GET("/viewed", h.ListRecentlyViewed)   // 最近浏览
		api.DELETE("/viewed", h.ClearRecentlyViewed)

		seller := api.Group("/seller/products")
		{
			seller.POST("", h.CreateProduct)       // 上架商品
			seller.PUT("/:id", h.UpdateProduct)    // 更新商品
			seller.DELETE("/:id", h.DeleteProduct) // 下架商品
			seller.GET("", h.ListSellerProducts)   // 卖家商品列表
		}
	}
}

// ListProducts 商品列表，支持筛选、排序与分页
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := domain.Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}
	if v := c.Query("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid min_price", "")
			return
		}
		filter.MinPrice = &d
	}
	if v := c.Query("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid max_price", "")
			return
		}
		filter.MaxPrice = &d
	}

	sortBy := domain.Sort(c.DefaultQuery("sort", string(domain.SortNewest)))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))

	products, total, err := h.query.ListProducts(c.Request.Context(), filter, sortBy, page, size)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"products": products, "total": total})
}

// GetProduct 商品详情，同时记录访客的浏览历史
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "product_id is required", "")
		return
	}

	product, err := h.query.GetProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to get product", "product_id", productID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	if key := visitorKey(c); key != "" {
		h.viewed.MarkViewed(c.Request.Context(), key, productID)
	}

	response.Success(c, product)
}

// ListRecentlyViewed 最近浏览的商品
func (h *CatalogHandler) ListRecentlyViewed(c *gin.Context) {
	key := visitorKey(c)
	if key == "" {
		response.Success(c, gin.H{"products": []*domain.Product{}})
		return
	}

	products, err := h.viewed.List(c.Request.Context(), key)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list recently viewed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"products": products})
}

// ClearRecentlyViewed 清空浏览历史
func (h *CatalogHandler) ClearRecentlyViewed(c *gin.Context) {
	key := visitorKey(c)
	if key == "" {
		response.Success(c, gin.H{"status": "cleared"})
		return
	}

	if err := h.viewed.Clear(c.Request.Context(), key); err != nil {
		logging.Error(c.Request.Context(), "Failed to clear recently viewed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"status": "cleared"})
}

// ProductRequest 上架或更新商品请求

type ProductRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category" binding:"required"`
	Price       string  `json:"price" binding:"required"`
	SalePrice   *string `json:"sale_price"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock"`
}

// CreateProduct 上架商品
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	seller, ok := requireSeller(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	price, salePrice, err := parsePrices(req.Price, req.SalePrice)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	cmd := application.CreateProductCommand{
		Title:       req.Title,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       price,
		SalePrice:   salePrice,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		SellerID:    seller.ID,
	}

	productID, err := h.cmd.CreateProduct(c.Request.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidProduct) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to create product", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"product_id": productID})
}

// UpdateProduct 更新商品
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	seller, ok := requireSeller(c)
	if !ok {
		return
	}

	productID := c.Param("id")
	if productID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "product_id is required", "")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	price, salePrice, err := parsePrices(req.Price, req.SalePrice)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	cmd := application.UpdateProductCommand{
		ProductID:   productID,
		SellerID:    seller.ID,
		Title:       req.Title,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       price,
		SalePrice:   salePrice,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	}

	if err := h.cmd.UpdateProduct(c.Request.Context(), cmd); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
		case errors.Is(err, domain.ErrNotProductOwner):
			response.ErrorWithStatus(c, http.StatusForbidden, err.Error(), "")
		case errors.Is(err, domain.ErrInvalidProduct):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		default:
			logging.Error(c.Request.Context(), "Failed to update product", "product_id", productID, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}

	response.Success(c, gin.H{"product_id": productID})
}

// DeleteProduct 下架商品
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	seller, ok := requireSeller(c)
	if !ok {
		return
	}

	productID := c.Param("id")
	if productID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "product_id is required", "")
		return
	}

	if err := h.cmd.DeleteProduct(c.Request.Context(), productID, seller.ID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
		case errors.Is(err, domain.ErrNotProductOwner):
			response.ErrorWithStatus(c, http.StatusForbidden, err.Error(), "")
		default:
			logging.Error(c.Request.Context(), "Failed to delete product", "product_id", productID, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}

	response.Success(c, gin.H{"status": "deleted", "product_id": productID})
}

// ListSellerProducts 卖家商品列表
func (h *CatalogHandler) ListSellerProducts(c *gin.Context) {
	seller, ok := requireSeller(c)
	if !ok {
		return
	}

	products, err := h.query.ListBySeller(c.Request.Context(), seller.ID)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list seller products", "seller_id", seller.ID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"products": products})
}

func requireSeller(c *gin.Context) (*session.User, bool) {
	visitor := session.FromContext(c.Request.Context())
	if !visitor.Authenticated() {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "authentication required", "")
		return nil, false
	}
	return visitor.User, true
}

func visitorKey(c *gin.Context) string {
	visitor := session.FromContext(c.Request.Context())
	if visitor.Authenticated() {
		return "user:" + visitor.User.ID
	}
	if visitor.GuestToken != "" {
		return "guest:" + visitor.GuestToken
	}
	return ""
}

func parsePrices(price string, salePrice *string) (decimal.Decimal, *decimal.Decimal, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return decimal.Zero, nil, errors.New("invalid price")
	}
	if salePrice == nil || *salePrice == "" {
		return p, nil, nil
	}
	sp, err := decimal.NewFromString(*salePrice)
	if err != nil {
		return decimal.Zero, nil, errors.New("invalid sale_price")
	}
	return p, &sp, nil
}
