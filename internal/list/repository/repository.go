package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	Version       *VersionRepository
	Item          *ItemRepository
	CustomProduct *CustomProductRepository
	HiddenItem    *HiddenItemRepository
	NamingRule    *NamingRuleRepository
	Category      *CategoryRepository
	Settings      *SettingsRepository
	Notification  *NotificationRepository
	User          *UserRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Version:       NewVersionRepository(db),
		Item:          NewItemRepository(db),
		CustomProduct: NewCustomProductRepository(db),
		HiddenItem:    NewHiddenItemRepository(db),
		NamingRule:    NewNamingRuleRepository(db),
		Category:      NewCategoryRepository(db),
		Settings:      NewSettingsRepository(db),
		Notification:  NewNotificationRepository(db),
		User:          NewUserRepository(db),
	}
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
