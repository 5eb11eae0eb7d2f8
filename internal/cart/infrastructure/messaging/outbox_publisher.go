package messaging

import (
	"context"

	"github.com/wyfcoding/pkg/messagequeue/outbox"

	"github.com/wyfcoding/stylehub/internal/cart/domain"
)

// outboxPublisher 把购物车事件写入 Outbox 表，由后台 Processor 推送到 Kafka。
// 购物车事件不参与业务事务，直接走 manager 自身的连接。
type outboxPublisher struct {
	manager *outbox.Manager
}

// NewOutboxPublisher 创建购物车事件发布者。
func NewOutboxPublisher(manager *outbox.Manager) domain.EventPublisher {
	return &outboxPublisher{manager: manager}
}

func (p *outboxPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return p.manager.PublishInTx(ctx, p.manager.DB(), topic, key, event)
}
