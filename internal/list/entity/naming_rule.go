package entity

import (
	"time"
)

// NamingRule 命名规则：把关键词移动到显示名的固定一侧。
// 按创建顺序依次应用，顺序是显式配置，规则之间不可交换。
type NamingRule struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ListKind  ListKind  `json:"list_kind" gorm:"size:16;not null;index"`
	Keyword   string    `json:"keyword" gorm:"size:64;not null"`
	Position  string    `json:"position" gorm:"size:16;not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
}

func (NamingRule) TableName() string {
	return "naming_rules"
}

// 关键词位置
const (
	RulePositionPrefix = "PREFIX"
	RulePositionSuffix = "SUFFIX"
)
