package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/stylehub/internal/cart/application"
	"github.com/wyfcoding/stylehub/internal/session"
)

// CartHandler HTTP 处理器
// 负责处理购物车相关的 HTTP 请求
type CartHandler struct {
	svc *application.CartService
}

// 创建 HTTP 处理器实例
func NewCartHandler(svc *application.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// 注册路由
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/cart")
	{
		api.GET("", h.GetCart)                  // 购物车视图
		api.POST("/items", h.AddItem)           // 加入商品
		api.PUT("/items/:id", h.SetQuantity)    // 修改数量
		api.DELETE("/items/:id", h.RemoveItem)  // 移除商品
		api.DELETE("", h.ClearCart)             // 清空购物车
	}
}

// GetCart 购物车视图
func (h *CartHandler) GetCart(c *gin.Context) {
	visitor := session.FromContext(c.Request.Context())

	view, err := h.svc.Get(c.Request.Context(), visitor)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to get cart", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, view)
}

// AddItemRequest 加入购物车请求

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// AddItem 加入商品
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	visitor := session.FromContext(c.Request.Context())

	view, err := h.svc.AddItem(c.Request.Context(), visitor, req.ProductID)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to add cart item", "product_id", req.ProductID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, view)
}

// SetQuantityRequest 修改数量请求

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity 修改行数量，小于 1 等价于移除
func (h *CartHandler) SetQuantity(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "product_id is required", "")
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	visitor := session.FromContext(c.Request.Context())

	view, err := h.svc.SetQuantity(c.Request.Context(), visitor, productID, req.Quantity)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to update cart item", "product_id", productID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, view)
}

// RemoveItem 移除商品
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "product_id is required", "")
		return
	}

	visitor := session.FromContext(c.Request.Context())

	view, err := h.svc.RemoveItem(c.Request.Context(), visitor, productID)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to remove cart item", "product_id", productID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	visitor := session.FromContext(c.Request.Context())

	view, err := h.svc.Clear(c.Request.Context(), visitor)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to clear cart", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, view)
}
