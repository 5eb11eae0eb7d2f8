package sender

import (
	"context"

	"github.com/wyfcoding/pkg/logging"

	"github.com/wyfcoding/stylehub/internal/notification/domain"
)

// LogSender 本地开发用的发送器，只打日志不做真实投递。
type LogSender struct{}

// NewLogSender 创建日志发送器
func NewLogSender() domain.Sender {
	return &LogSender{}
}

// Send 记录一条投递日志
func (s *LogSender) Send(ctx context.Context, target, subject, content string) error {
	logging.Info(ctx, "dispatching notification",
		"sender", "LogSender",
		"target", target,
		"subject", subject,
		"content", content,
	)
	return nil
}
