package entity

import (
	"time"
)

// User 查看端用户。认证由外部签发的 JWT 承担，这里只维护
// 发布通知扇出所需的用户清单。
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Email     string    `json:"email" gorm:"size:256;uniqueIndex"`
	Status    string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Notification 发布通知（每次发布为除发布者外的每个用户写一条未读记录，
// 投递通道由外部系统消费，这里只负责落库与 SSE 提醒）
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	UserID    string    `json:"user_id" gorm:"size:32;not null;index:idx_notifications_user_read"`
	ListKind  ListKind  `json:"list_kind" gorm:"size:16;not null"`
	VersionID string    `json:"version_id" gorm:"size:32;not null"`
	Message   string    `json:"message" gorm:"size:512;not null"`
	IsRead    bool      `json:"is_read" gorm:"not null;default:false;index:idx_notifications_user_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
