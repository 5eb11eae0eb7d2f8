// Package domain 通知服务的领域模型
package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// NotificationStatus 通知状态
type NotificationStatus string

const (
	StatusPending NotificationStatus = "PENDING"
	StatusSent    NotificationStatus = "SENT"
	StatusFailed  NotificationStatus = "FAILED"
)

// Notification 通知实体
type Notification struct {
	gorm.Model
	// NotificationID 通知 ID
	NotificationID string `gorm:"column:notification_id;type:varchar(32);uniqueIndex;not null" json:"notification_id"`
	// UserKey 接收方标识，登录用户为 user:<id>，游客为 guest:<token>
	UserKey string `gorm:"column:user_key;type:varchar(64);index;not null" json:"user_key"`
	// Subject 通知主题
	Subject string `gorm:"column:subject;type:varchar(100)" json:"subject"`
	// Content 通知内容
	Content string `gorm:"column:content;type:text" json:"content"`
	// Target 投递目标，如邮箱地址
	Target string `gorm:"column:target;type:varchar(100)" json:"target"`
	// Status 通知状态
	Status NotificationStatus `gorm:"column:status;type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	// ErrorMessage 错误信息
	ErrorMessage string `gorm:"column:error_message;type:text" json:"error_message"`
	// SentAt 发送时间
	SentAt *time.Time `gorm:"column:sent_at;type:datetime" json:"sent_at"`
}

func (Notification) TableName() string { return "notifications" }

// Sender 通知投递端口
type Sender interface {
	Send(ctx context.Context, target, subject, content string) error
}

// NotificationRepository 通知仓储
type NotificationRepository interface {
	Save(ctx context.Context, notification *Notification) error
	ListByUserKey(ctx context.Context, userKey string, limit int) ([]*Notification, error)
}
