package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyCategoryName 分组名不能为空
var ErrEmptyCategoryName = errors.New("category name must not be empty")

// CategoryService 显示分组管理，含按关键词的自动指派
type CategoryService struct {
	categories *repository.CategoryRepository
	versions   compareVersionStore
	items      *repository.ItemRepository
	logger     *zap.Logger
}

// NewCategoryService 创建分组服务
func NewCategoryService(repos *repository.Repositories, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categories: repos.Category,
		versions:   repos.Version,
		items:      repos.Item,
		logger:     logger,
	}
}

func (s *CategoryService) List(ctx context.Context, kind entity.ListKind) ([]entity.Category, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	return s.categories.ListByKind(ctx, kind)
}

// CategoryRequest 创建/更新分组的请求体
type CategoryRequest struct {
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
	Keyword    string `json:"keyword"`
}

func (s *CategoryService) Create(ctx context.Context, kind entity.ListKind, req CategoryRequest) (*entity.Category, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	if req.Name == "" {
		return nil, ErrEmptyCategoryName
	}
	c := &entity.Category{
		ID:         uuid.New().String()[:32],
		ListKind:   kind,
		Name:       req.Name,
		OrderIndex: req.OrderIndex,
		Keyword:    req.Keyword,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req CategoryRequest) (*entity.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, ErrEmptyCategoryName
	}
	c.Name = req.Name
	c.OrderIndex = req.OrderIndex
	c.Keyword = req.Keyword
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete 删除分组。引用该分组的条目与自建商品回到未分类。
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

// AutoAssign 给当前生效版本里未分类的条目按分组关键词指派分组
// （名称包含关键词即命中，大小写不敏感，按分组排序先到先得）。
// 返回实际指派的条目数。
func (s *CategoryService) AutoAssign(ctx context.Context, kind entity.ListKind) (int, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	active, err := s.versions.FindActive(ctx, kind)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrNoActiveList, kind)
		}
		return 0, err
	}
	categories, err := s.categories.ListByKind(ctx, kind)
	if err != nil {
		return 0, err
	}
	items, err := s.items.ListByVersion(ctx, active.ID)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, item := range items {
		if item.CategoryID != nil {
			continue
		}
		name := strings.ToLower(item.Name())
		for _, c := range categories {
			if c.Keyword == "" || !strings.Contains(name, strings.ToLower(c.Keyword)) {
				continue
			}
			categoryID := c.ID
			if err := s.items.UpdateDisplay(ctx, item.ID, item.DisplayName, item.IsManuallyRenamed, &categoryID); err != nil {
				s.logger.Warn("auto assign failed for item",
					zap.String("item_id", item.ID), zap.Error(err))
				break
			}
			assigned++
			break
		}
	}
	return assigned, nil
}
