package repository

import (
	"context"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HiddenItemRepository struct {
	db *gorm.DB
}

func NewHiddenItemRepository(db *gorm.DB) *HiddenItemRepository {
	return &HiddenItemRepository{db: db}
}

// Add 隐藏一个 PLU。重复隐藏幂等处理，不报错。
func (r *HiddenItemRepository) Add(ctx context.Context, h *entity.HiddenItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(h).Error
}

// Remove 取消隐藏，底层数据不受影响
func (r *HiddenItemRepository) Remove(ctx context.Context, kind entity.ListKind, plu string) error {
	res := r.db.WithContext(ctx).
		Where("list_kind = ? AND plu = ?", kind, plu).
		Delete(&entity.HiddenItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *HiddenItemRepository) ListByKind(ctx context.Context, kind entity.ListKind) ([]entity.HiddenItem, error) {
	var hidden []entity.HiddenItem
	err := r.db.WithContext(ctx).
		Where("list_kind = ?", kind).
		Order("plu ASC").
		Find(&hidden).Error
	return hidden, err
}

// PLUSet 隐藏集合（显示组合输入）
func (r *HiddenItemRepository) PLUSet(ctx context.Context, kind entity.ListKind) (map[string]struct{}, error) {
	hidden, err := r.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(hidden))
	for _, h := range hidden {
		set[h.PLU] = struct{}{}
	}
	return set, nil
}
