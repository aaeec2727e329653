package entity

import (
	"time"
)

// CustomProduct 自建商品（不随快照上传，全局有效）。
// PLU 与主列表冲突时被抑制，主列表条目优先。
type CustomProduct struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	ListKind   ListKind  `json:"list_kind" gorm:"size:16;not null;uniqueIndex:uq_custom_kind_plu"`
	PLU        string    `json:"plu" gorm:"column:plu;size:5;not null;uniqueIndex:uq_custom_kind_plu"`
	Name       string    `json:"name" gorm:"size:256;not null"`
	ItemType   string    `json:"item_type" gorm:"size:16;not null"`
	Price      *float64  `json:"price"`
	CategoryID *string   `json:"category_id" gorm:"size:32"`
	CreatedBy  string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt  time.Time `json:"created_at"`

	// 关联
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CustomProduct) TableName() string {
	return "custom_products"
}

// HiddenItem 按 PLU 全局隐藏，跨重新上传持续生效，不删除底层数据
type HiddenItem struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ListKind  ListKind  `json:"list_kind" gorm:"size:16;not null;uniqueIndex:uq_hidden_kind_plu"`
	PLU       string    `json:"plu" gorm:"column:plu;size:5;not null;uniqueIndex:uq_hidden_kind_plu"`
	CreatedBy string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (HiddenItem) TableName() string {
	return "hidden_items"
}

// Category 显示分组，手动指派或按子串规则匹配
type Category struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	ListKind   ListKind  `json:"list_kind" gorm:"size:16;not null;index"`
	Name       string    `json:"name" gorm:"size:128;not null"`
	OrderIndex int       `json:"order_index" gorm:"not null;default:0"`
	Keyword    string    `json:"keyword" gorm:"size:128"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
