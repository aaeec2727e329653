package handler

import (
	"strconv"

	"github.com/bitfantasy/plulist/internal/list/service"
	"github.com/gin-gonic/gin"
)

// NotificationHandler 未读通知
type NotificationHandler struct {
	svc *service.NotificationService
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List 当前用户的通知
// GET /api/v1/notifications?unread_only=true&limit=50
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread_only") == "true"
	limit, _ := strconv.Atoi(c.Query("limit"))
	notifications, err := h.svc.List(c.Request.Context(), GetUserID(c), unreadOnly, limit)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": notifications})
}

// UnreadCount 未读计数
// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.CountUnread(c.Request.Context(), GetUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"count": count})
}

// MarkRead 单条已读
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"read": c.Param("id")})
}

// MarkAllRead 全部已读
// PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), GetUserID(c)); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"read": "all"})
}
