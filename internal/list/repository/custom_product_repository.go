package repository

import (
	"context"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"gorm.io/gorm"
)

type CustomProductRepository struct {
	db *gorm.DB
}

func NewCustomProductRepository(db *gorm.DB) *CustomProductRepository {
	return &CustomProductRepository{db: db}
}

func (r *CustomProductRepository) Create(ctx context.Context, cp *entity.CustomProduct) error {
	return r.db.WithContext(ctx).Create(cp).Error
}

func (r *CustomProductRepository) FindByID(ctx context.Context, id string) (*entity.CustomProduct, error) {
	var cp entity.CustomProduct
	err := r.db.WithContext(ctx).First(&cp, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &cp, nil
}

func (r *CustomProductRepository) ListByKind(ctx context.Context, kind entity.ListKind) ([]entity.CustomProduct, error) {
	var products []entity.CustomProduct
	err := r.db.WithContext(ctx).
		Where("list_kind = ?", kind).
		Order("plu ASC").
		Find(&products).Error
	return products, err
}

func (r *CustomProductRepository) Update(ctx context.Context, cp *entity.CustomProduct) error {
	return r.db.WithContext(ctx).Save(cp).Error
}

func (r *CustomProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.CustomProduct{}, "id = ?", id).Error
}
