package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
	"gorm.io/gorm"

	"github.com/wyfcoding/stylehub/internal/order/application"
	"github.com/wyfcoding/stylehub/internal/order/domain"
	"github.com/wyfcoding/stylehub/internal/session"
)

// OrderHandler HTTP 处理器
// 负责处理订单相关的 HTTP 请求
type OrderHandler struct {
	cmd   *application.OrderCommandService
	query *application.OrderQueryService
}

// 创建 HTTP 处理器实例
func NewOrderHandler(cmd *application.OrderCommandService, query *application.OrderQueryService) *OrderHandler {
	return &OrderHandler{cmd: cmd, query: query}
}

// 注册路由
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1")
	{
		api.POST("/orders", h.PlaceOrder)   // 结算下单
		api.GET("/orders", h.ListOrders)    // 买家订单历史
		api.GET("/orders/:id", h.GetOrder)  // 订单详情

		seller := api.Group("/seller/orders")
		{
			seller.GET("", h.ListSellerOrders)             // 卖家订单列表
			seller.PUT("/:id/status", h.UpdateOrderStatus) // 更新订单状态
		}
	}
}

// PlaceOrderRequest 下单请求

type PlaceOrderRequest struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerEmail   string `json:"customer_email" binding:"required,email"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

// PlaceOrder 结算下单
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	visitor := session.FromContext(c.Request.Context())

	orderID, err := h.cmd.PlaceOrder(c.Request.Context(), visitor, application.PlaceOrderCommand{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAuthenticated):
			response.ErrorWithStatus(c, http.StatusUnauthorized, err.Error(), "")
		case errors.Is(err, domain.ErrEmptyCart):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		default:
			logging.Error(c.Request.Context(), "Failed to place order", "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}

	response.Success(c, gin.H{"order_id": orderID})
}

// ListOrders 买家订单历史
func (h *OrderHandler) ListOrders(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orders, err := h.query.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list orders", "user_id", user.ID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"orders": orders})
}

// GetOrder 订单详情
func (h *OrderHandler) GetOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orderID := c.Param("id")
	if orderID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "order_id is required", "")
		return
	}

	order, err := h.query.GetOrder(c.Request.Context(), user.ID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "")
		case errors.Is(err, domain.ErrNotOrderOwner):
			response.ErrorWithStatus(c, http.StatusForbidden, err.Error(), "")
		default:
			logging.Error(c.Request.Context(), "Failed to get order", "order_id", orderID, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}

	response.Success(c, order)
}

// ListSellerOrders 卖家订单列表
func (h *OrderHandler) ListSellerOrders(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	summaries, err := h.query.ListForSeller(c.Request.Context(), user.ID)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list seller orders", "seller_id", user.ID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"orders": summaries})
}

// UpdateStatusRequest 更新状态请求

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 卖家更新订单状态
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orderID := c.Param("id")
	if orderID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "order_id is required", "")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	err := h.cmd.UpdateStatus(c.Request.Context(), user.ID, orderID, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "")
		case errors.Is(err, domain.ErrNotOrderSeller):
			response.ErrorWithStatus(c, http.StatusForbidden, err.Error(), "")
		case errors.Is(err, domain.ErrInvalidTransition):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		default:
			logging.Error(c.Request.Context(), "Failed to update order status", "order_id", orderID, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}

	response.Success(c, gin.H{"order_id": orderID, "status": req.Status})
}

func requireUser(c *gin.Context) (*session.User, bool) {
	visitor := session.FromContext(c.Request.Context())
	if !visitor.Authenticated() {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "authentication required", "")
		return nil, false
	}
	return visitor.User, true
}
