// Package service 业务服务层：编排仓库、纯引擎与外部设施，
// 承载发布序列、比对编排与各管理操作。
package service

import (
	"github.com/bitfantasy/plulist/internal/list/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services 服务集合，main 中一次性装配
type Services struct {
	Compare       *CompareService
	Publish       *PublishService
	Display       *DisplayService
	Export        *ExportService
	Version       *VersionService
	Settings      *SettingsService
	NamingRule    *NamingRuleService
	Category      *CategoryService
	CustomProduct *CustomProductService
	HiddenItem    *HiddenItemService
	Notification  *NotificationService
}

// NewServices 装配全部服务
func NewServices(repos *repository.Repositories, rdb *redis.Client, logger *zap.Logger) *Services {
	display := NewDisplayService(repos, rdb, logger)
	return &Services{
		Compare:       NewCompareService(repos, logger),
		Publish:       NewPublishService(repos, rdb, logger),
		Display:       display,
		Export:        NewExportService(display),
		Version:       NewVersionService(repos, logger),
		Settings:      NewSettingsService(repos, logger),
		NamingRule:    NewNamingRuleService(repos),
		Category:      NewCategoryService(repos, logger),
		CustomProduct: NewCustomProductService(repos),
		HiddenItem:    NewHiddenItemService(repos),
		Notification:  NewNotificationService(repos),
	}
}
