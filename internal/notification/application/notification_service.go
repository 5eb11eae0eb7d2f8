package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/logging"

	"github.com/wyfcoding/stylehub/internal/notification/domain"
)

// NotificationService 通知应用服务。
// 先落库再投递；投递失败把记录标记为 FAILED，错误不向上传播。
type NotificationService struct {
	repo   domain.NotificationRepository
	sender domain.Sender
}

// NewNotificationService 创建通知应用服务实例
func NewNotificationService(repo domain.NotificationRepository, sender domain.Sender) *NotificationService {
	return &NotificationService{repo: repo, sender: sender}
}

// Notify 记录并投递一条通知，实现购物车与心愿单的 Notifier 端口。
func (s *NotificationService) Notify(ctx context.Context, userKey, message string) error {
	return s.Send(ctx, userKey, "Storefront", message, userKey)
}

// Send 记录并投递通知。
func (s *NotificationService) Send(ctx context.Context, userKey, subject, content, target string) error {
	notification := &domain.Notification{
		NotificationID: fmt.Sprintf("%d", idgen.GenID()),
		UserKey:        userKey,
		Subject:        subject,
		Content:        content,
		Target:         target,
		Status:         domain.StatusPending,
	}
	if err := s.repo.Save(ctx, notification); err != nil {
		return err
	}

	if err := s.sender.Send(ctx, target, subject, content); err != nil {
		notification.Status = domain.StatusFailed
		notification.ErrorMessage = err.Error()
		if saveErr := s.repo.Save(ctx, notification); saveErr != nil {
			logging.Error(ctx, "failed to mark notification failed", "notification_id", notification.NotificationID, "error", saveErr)
		}
		logging.Warn(ctx, "notification dispatch failed", "notification_id", notification.NotificationID, "error", err)
		return nil
	}

	now := time.Now()
	notification.Status = domain.StatusSent
	notification.SentAt = &now
	if err := s.repo.Save(ctx, notification); err != nil {
		logging.Error(ctx, "failed to mark notification sent", "notification_id", notification.NotificationID, "error", err)
	}
	return nil
}

// History 接收方的最近通知。
func (s *NotificationService) History(ctx context.Context, userKey string, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListByUserKey(ctx, userKey, limit)
}
