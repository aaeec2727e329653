package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"go.uber.org/zap"
)

// VersionService 版本查询、发布后条目维护与保留期清理
type VersionService struct {
	versions *repository.VersionRepository
	items    *repository.ItemRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewVersionService 创建版本服务
func NewVersionService(repos *repository.Repositories, logger *zap.Logger) *VersionService {
	return &VersionService{
		versions: repos.Version,
		items:    repos.Item,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *VersionService) List(ctx context.Context, kind entity.ListKind, limit int) ([]entity.Version, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.versions.List(ctx, kind, limit)
}

// Get 版本详情，含全部条目
func (s *VersionService) Get(ctx context.Context, id string) (*entity.Version, error) {
	v, err := s.versions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByVersion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	v.Items = items
	return v, nil
}

// RenameItemRequest 发布后的条目维护请求。displayName 为空串时
// 清除覆盖名并复位手动改名标记，命名规则重新生效。
type RenameItemRequest struct {
	DisplayName string  `json:"display_name"`
	CategoryID  *string `json:"category_id"`
}

// RenameItem 发布后唯一允许的条目变更：改显示名与分组。
// 设置覆盖名即视为手动改名，显示组合不再对其应用命名规则。
func (s *VersionService) RenameItem(ctx context.Context, itemID string, req RenameItemRequest) (*entity.Item, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var displayName *string
	manuallyRenamed := false
	if req.DisplayName != "" {
		displayName = &req.DisplayName
		manuallyRenamed = true
	}
	categoryID := req.CategoryID
	if categoryID == nil {
		categoryID = item.CategoryID
	}

	if err := s.items.UpdateDisplay(ctx, itemID, displayName, manuallyRenamed, categoryID); err != nil {
		return nil, err
	}
	item.DisplayName = displayName
	item.IsManuallyRenamed = manuallyRenamed
	item.CategoryID = categoryID
	return item, nil
}

// PurgeExpired 清理保留期已过的冻结版本，维护接口触发
func (s *VersionService) PurgeExpired(ctx context.Context) (int, error) {
	purged, err := s.versions.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("expired frozen versions purged", zap.Int("count", purged))
	}
	return purged, nil
}
