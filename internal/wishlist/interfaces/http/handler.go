package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/stylehub/internal/session"
	"github.com/wyfcoding/stylehub/internal/wishlist/application"
	"github.com/wyfcoding/stylehub/internal/wishlist/domain"
)

// WishlistHandler HTTP 处理器
// 负责处理心愿单相关的 HTTP 请求
type WishlistHandler struct {
	svc *application.WishlistService
}

// 创建 HTTP 处理器实例
func NewWishlistHandler(svc *application.WishlistService) *WishlistHandler {
	return &WishlistHandler{svc: svc}
}

// 注册路由
func (h *WishlistHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/wishlist")
	{
		api.GET("", h.List)                       // 心愿单列表
		api.POST("/items", h.Add)                 // 收藏商品
		api.DELETE("/items/:id", h.Remove)        // 取消收藏
		api.GET("/items/:id", h.Contains)         // 查询是否已收藏
	}
}

// List 心愿单列表
func (h *WishlistHandler) List(c *gin.Context) {
	visitor := session.FromContext(c.Request.Context())

	entries, err := h.svc.List(c.Request.Context(), visitor)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to list wishlist", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"items": entries})
}

// AddEntryRequest 收藏商品请求

type AddEntryRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// Add 收藏商品
func (h *WishlistHandler) Add(c *gin.Context) {
	var req AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	visitor := session.FromContext(c.Request.Context())

	if err := h.svc.Add(c.Request.Context(), visitor, req.ProductID); err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to add wishlist entry", "product_id", req.ProductID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"product_id": req.ProductID})
}

// Remove 取消收藏
func (h *WishlistHandler) Remove(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "product_id is required", "")
		return
	}

	visitor := session.FromContext(c.Request.Context())

	if err := h.svc.Remove(c.Request.Context(), visitor, productID); err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to remove wishlist entry", "product_id", productID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"product_id": productID})
}

// Contains 查询是否已收藏
func (h *WishlistHandler) Contains(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "product_id is required", "")
		return
	}

	visitor := session.FromContext(c.Request.Context())

	contained, err := h.svc.Contains(c.Request.Context(), visitor, productID)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to check wishlist entry", "product_id", productID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"product_id": productID, "contained": contained})
}
