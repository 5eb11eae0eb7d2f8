package domain

import "context"

// EventPublisher 领域事件发布接口。目录事件在商品写入成功后发布。
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
