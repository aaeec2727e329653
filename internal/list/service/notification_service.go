package service

import (
	"context"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
)

// NotificationService 未读通知的查询与已读回执。
// 通知由发布扇出写入，投递通道是外部系统的事。
type NotificationService struct {
	notifications *repository.NotificationRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(repos *repository.Repositories) *NotificationService {
	return &NotificationService{notifications: repos.Notification}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]entity.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.notifications.ListByUser(ctx, userID, unreadOnly, limit)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.notifications.MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifications.MarkAllRead(ctx, userID)
}
