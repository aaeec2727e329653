package entity

import (
	"time"
)

// ListKind 列表类型（果蔬/烘焙两条并行列表，同一引擎参数化处理）
type ListKind string

const (
	KindProduce ListKind = "produce"
	KindBakery  ListKind = "bakery"
)

// Valid 判断是否为已知列表类型
func (k ListKind) Valid() bool {
	return k == KindProduce || k == KindBakery
}

// Item 版本内商品条目，发布时由比对结果复制生成。
// 发布后仅 DisplayName / IsManuallyRenamed / CategoryID 可变更。
type Item struct {
	ID                string    `json:"id" gorm:"primaryKey;size:32"`
	ListKind          ListKind  `json:"list_kind" gorm:"size:16;not null;index:idx_items_kind_version"`
	VersionID         string    `json:"version_id" gorm:"size:32;not null;index:idx_items_kind_version"`
	PLU               string    `json:"plu" gorm:"column:plu;size:5;not null;index"`
	SystemName        string    `json:"system_name" gorm:"size:256;not null"`
	DisplayName       *string   `json:"display_name" gorm:"size:256"`
	ItemType          string    `json:"item_type" gorm:"size:16;not null"`
	Status            string    `json:"status" gorm:"size:32;not null;default:UNCHANGED"`
	OldPLU            *string   `json:"old_plu" gorm:"column:old_plu;size:5"`
	CategoryID        *string   `json:"category_id" gorm:"size:32"`
	IsManuallyRenamed bool      `json:"is_manually_renamed" gorm:"not null;default:false"`
	Price             *float64  `json:"price"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// 关联
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Item) TableName() string {
	return "items"
}

// Name 显示名称（有覆盖名用覆盖名，否则用系统名）
func (i Item) Name() string {
	if i.DisplayName != nil && *i.DisplayName != "" {
		return *i.DisplayName
	}
	return i.SystemName
}

// Version 周版本快照，发布/回滚的最小单元
type Version struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	ListKind    ListKind   `json:"list_kind" gorm:"size:16;not null;index:idx_versions_kind_status"`
	WeekNumber  int        `json:"week_number" gorm:"not null"`
	Year        int        `json:"year" gorm:"not null"`
	Status      string     `json:"status" gorm:"size:16;not null;default:draft;index:idx_versions_kind_status"`
	CreatedBy   string     `json:"created_by" gorm:"size:32;not null"`
	PublishedAt *time.Time `json:"published_at"`
	FrozenAt    *time.Time `json:"frozen_at"`
	DeleteAfter *time.Time `json:"delete_after"`
	CreatedAt   time.Time  `json:"created_at"`

	// 关联
	Items []Item `json:"items,omitempty" gorm:"foreignKey:VersionID"`
}

func (Version) TableName() string {
	return "versions"
}

// 条目状态（REMOVED 仅用于比对报告，从不落库）
const (
	ItemStatusUnchanged  = "UNCHANGED"
	ItemStatusNew        = "NEW_PRODUCT_YELLOW"
	ItemStatusPLUChanged = "PLU_CHANGED_RED"
	ItemStatusRemoved    = "REMOVED"
)

// 条目计价类型
const (
	ItemTypePiece  = "PIECE"
	ItemTypeWeight = "WEIGHT"
)

// 版本状态
const (
	VersionStatusDraft  = "draft"
	VersionStatusActive = "active"
	VersionStatusFrozen = "frozen"
)

// 冻结版本保留期，到期后由保留任务清理
const FrozenRetention = 7 * 24 * time.Hour
