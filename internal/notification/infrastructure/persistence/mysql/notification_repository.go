package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/stylehub/internal/notification/domain"
)

type notificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

func (r *notificationRepository) ListByUserKey(ctx context.Context, userKey string, limit int) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_key = ?", userKey).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}
