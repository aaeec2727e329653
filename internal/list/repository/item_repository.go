package repository

import (
	"context"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) ListByVersion(ctx context.Context, versionID string) ([]entity.Item, error) {
	var items []entity.Item
	err := r.db.WithContext(ctx).
		Where("version_id = ?", versionID).
		Order("plu ASC").
		Find(&items).Error
	return items, err
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*entity.Item, error) {
	var item entity.Item
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &item, nil
}

// InsertBatch 单批写入。发布序列在服务层按固定批次切分调用，
// 每次调用只具备批粒度的原子性。
func (r *ItemRepository) InsertBatch(ctx context.Context, items []entity.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *ItemRepository) DeleteByVersion(ctx context.Context, versionID string) error {
	return r.db.WithContext(ctx).Where("version_id = ?", versionID).Delete(&entity.Item{}).Error
}

// UpdateDisplay 发布后唯一允许的条目变更：改显示名 / 手动改名标记 / 分类
func (r *ItemRepository) UpdateDisplay(ctx context.Context, id string, displayName *string, isManuallyRenamed bool, categoryID *string) error {
	res := r.db.WithContext(ctx).Model(&entity.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"display_name":        displayName,
			"is_manually_renamed": isManuallyRenamed,
			"category_id":         categoryID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
