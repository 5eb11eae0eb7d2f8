package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/logging"

	cartapplication "github.com/wyfcoding/stylehub/internal/cart/application"
	"github.com/wyfcoding/stylehub/internal/order/domain"
	"github.com/wyfcoding/stylehub/internal/session"
)

// PlaceOrderCommand 下单命令
type PlaceOrderCommand struct {
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
}

// CartGateway 结算时读取并清空当前访客的购物车。
type CartGateway interface {
	Get(ctx context.Context, visitor session.Visitor) (*cartapplication.CartView, error)
	Clear(ctx context.Context, visitor session.Visitor) (*cartapplication.CartView, error)
}

// OrderCommandService 处理订单相关的命令操作
type OrderCommandService struct {
	repo      domain.OrderRepository
	cart      CartGateway
	publisher domain.EventPublisher
}

// NewOrderCommandService 创建新的 OrderCommandService 实例
func NewOrderCommandService(repo domain.OrderRepository, cart CartGateway, publisher domain.EventPublisher) *OrderCommandService {
	return &OrderCommandService{repo: repo, cart: cart, publisher: publisher}
}

// PlaceOrder 下单。仅限登录用户；空购物车拒绝下单。
// 订单与行快照、outbox 事件在同一事务内落库，成功后清空购物车。
func (s *OrderCommandService) PlaceOrder(ctx context.Context, visitor session.Visitor, cmd PlaceOrderCommand) (string, error) {
	if !visitor.Authenticated() {
		return "", domain.ErrNotAuthenticated
	}

	view, err := s.cart.Get(ctx, visitor)
	if err != nil {
		return "", err
	}
	if len(view.Items) == 0 {
		return "", domain.ErrEmptyCart
	}

	order := &domain.Order{
		OrderID:         fmt.Sprintf("ORD-%d", idgen.GenID()),
		UserID:          visitor.User.ID,
		CustomerName:    cmd.CustomerName,
		CustomerEmail:   cmd.CustomerEmail,
		ShippingAddress: cmd.ShippingAddress,
		Status:          domain.StatusPending,
		Total:           view.Total,
	}
	for _, item := range view.Items {
		order.Items = append(order.Items, domain.OrderItem{
			OrderID:   order.OrderID,
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, order); err != nil {
			return err
		}
		event := domain.OrderPlacedEvent{
			OrderID:       order.OrderID,
			UserID:        order.UserID,
			CustomerEmail: order.CustomerEmail,
			Total:         order.Total,
			ItemCount:     order.ItemCount(),
			Timestamp:     time.Now(),
		}
		return s.publisher.PublishInTx(txCtx, contextx.GetTx(txCtx), domain.OrderPlacedEventType, order.OrderID, event)
	})
	if err != nil {
		return "", err
	}

	// 订单已落库；清空购物车失败只记日志，不回滚订单。
	if _, err := s.cart.Clear(ctx, visitor); err != nil {
		logging.Warn(ctx, "failed to clear cart after checkout", "order_id", order.OrderID, "error", err)
	}

	return order.OrderID, nil
}

// UpdateStatus 卖家更新订单状态，只允许合法迁移。
func (s *OrderCommandService) UpdateStatus(ctx context.Context, sellerID, orderID string, status domain.OrderStatus) error {
	order, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	hasItems, err := s.repo.SellerHasItems(ctx, orderID, sellerID)
	if err != nil {
		return err
	}
	if !hasItems {
		return domain.ErrNotOrderSeller
	}

	oldStatus := order.Status
	if err := order.Transition(status); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	if s.publisher != nil {
		event := domain.OrderStatusChangedEvent{
			OrderID:   orderID,
			UserID:    order.UserID,
			OldStatus: oldStatus,
			NewStatus: status,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, domain.OrderStatusChangedEventType, orderID, event)
	}
	return nil
}
