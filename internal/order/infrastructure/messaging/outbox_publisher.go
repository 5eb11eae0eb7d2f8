package messaging

import (
	"context"
	"fmt"

	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"gorm.io/gorm"

	"github.com/wyfcoding/stylehub/internal/order/domain"
)

// outboxPublisher 订单事件的 Outbox 实现。
// order.placed 必须与订单行在同一事务内落库，所以这里额外暴露 PublishInTx。
type outboxPublisher struct {
	manager *outbox.Manager
}

// NewOutboxPublisher 创建订单事件发布者。
func NewOutboxPublisher(manager *outbox.Manager) domain.EventPublisher {
	return &outboxPublisher{manager: manager}
}

// Publish 发布一条不要求随业务事务的订单事件（如状态变更）。
func (p *outboxPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return p.manager.PublishInTx(ctx, p.manager.DB(), topic, key, event)
}

// PublishInTx 在给定事务内发布事件，tx 必须是 *gorm.DB。
func (p *outboxPublisher) PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error {
	gormTx, ok := tx.(*gorm.DB)
	if !ok {
		return fmt.Errorf("tx must be *gorm.DB, got %T", tx)
	}
	return p.manager.PublishInTx(ctx, gormTx, topic, key, event)
}
