package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/plulist/internal/list/compare"
	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"github.com/google/uuid"
)

// HiddenItemService 按 PLU 的全局隐藏。隐藏不动底层数据，
// 跨重新上传持续生效，取消隐藏即恢复显示。
type HiddenItemService struct {
	hidden *repository.HiddenItemRepository
}

// NewHiddenItemService 创建隐藏服务
func NewHiddenItemService(repos *repository.Repositories) *HiddenItemService {
	return &HiddenItemService{hidden: repos.HiddenItem}
}

func (s *HiddenItemService) List(ctx context.Context, kind entity.ListKind) ([]entity.HiddenItem, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	return s.hidden.ListByKind(ctx, kind)
}

// Hide 隐藏一个 PLU，重复隐藏幂等
func (s *HiddenItemService) Hide(ctx context.Context, kind entity.ListKind, plu, createdBy string) (*entity.HiddenItem, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	if err := (compare.Row{PLU: plu, SystemName: "x"}).Validate(); err != nil {
		return nil, err
	}
	h := &entity.HiddenItem{
		ID:        uuid.New().String()[:32],
		ListKind:  kind,
		PLU:       plu,
		CreatedBy: createdBy,
	}
	if err := s.hidden.Add(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Unhide 取消隐藏
func (s *HiddenItemService) Unhide(ctx context.Context, kind entity.ListKind, plu string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	return s.hidden.Remove(ctx, kind, plu)
}
