package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	cartdomain "github.com/wyfcoding/stylehub/internal/cart/domain"
	"github.com/wyfcoding/stylehub/internal/notification/application"
	orderdomain "github.com/wyfcoding/stylehub/internal/order/domain"
)

// EventHandler 消费店面领域事件并生成通知。
type EventHandler struct {
	svc    *application.NotificationService
	logger *slog.Logger
}

func NewEventHandler(svc *application.NotificationService, logger *slog.Logger) *EventHandler {
	return &EventHandler{svc: svc, logger: logger}
}

func (h *EventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.Topic {
	case orderdomain.OrderPlacedEventType:
		var payload struct {
			OrderID       string `json:"order_id"`
			UserID        string `json:"user_id"`
			CustomerEmail string `json:"customer_email"`
			ItemCount     int    `json:"item_count"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal order placed event", "error", err)
			return err
		}
		content := fmt.Sprintf("Your order %s with %d items has been placed.", payload.OrderID, payload.ItemCount)
		return h.svc.Send(ctx, "user:"+payload.UserID, "Order confirmation", content, payload.CustomerEmail)

	case cartdomain.CartMergedEventType:
		var payload struct {
			UserID   string `json:"user_id"`
			Migrated int    `json:"migrated"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal cart merged event", "error", err)
			return err
		}
		content := fmt.Sprintf("%d items from your guest session were added to your cart.", payload.Migrated)
		return h.svc.Send(ctx, "user:"+payload.UserID, "Cart restored", content, "user:"+payload.UserID)

	default:
		h.logger.WarnContext(ctx, "unexpected topic", "topic", msg.Topic)
		return nil
	}
}
