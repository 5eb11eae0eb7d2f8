package messaging

import (
	"context"

	"github.com/wyfcoding/pkg/messagequeue/outbox"

	"github.com/wyfcoding/stylehub/internal/catalog/domain"
)

// outboxPublisher 商品目录事件的 Outbox 实现。
// 商品的创建、更新、删除与调价事件在写入成功后记录到 Outbox 表。
type outboxPublisher struct {
	manager *outbox.Manager
}

// NewOutboxPublisher 创建目录事件发布者。
func NewOutboxPublisher(manager *outbox.Manager) domain.EventPublisher {
	return &outboxPublisher{manager: manager}
}

// Publish 记录一条目录事件，等待 Processor 投递。
func (p *outboxPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return p.manager.PublishInTx(ctx, p.manager.DB(), topic, key, event)
}
