package repository

import (
	"context"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &c, nil
}

func (r *CategoryRepository) ListByKind(ctx context.Context, kind entity.ListKind) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).
		Where("list_kind = ?", kind).
		Order("order_index ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 解除条目与自建商品上的引用，分组本身可安全删除
		if err := tx.Model(&entity.Item{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.CustomProduct{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Category{}, "id = ?", id).Error
	})
}
