package entity

import (
	"time"
)

// ListSettings 每个列表一行的显示设置单例
type ListSettings struct {
	ID              string    `json:"id" gorm:"primaryKey;size:32"`
	ListKind        ListKind  `json:"list_kind" gorm:"size:16;not null;uniqueIndex"`
	MarkYellowWeeks int       `json:"mark_yellow_weeks" gorm:"not null;default:2"`
	SortMode        string    `json:"sort_mode" gorm:"size:32;not null;default:ALPHABETICAL"`
	UpdatedBy       string    `json:"updated_by" gorm:"size:32"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (ListSettings) TableName() string {
	return "list_settings"
}

// 排序模式
const (
	SortModeAlphabetical = "ALPHABETICAL"
	SortModeByCategory   = "BY_CATEGORY"
)
