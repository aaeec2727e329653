package repository

import (
	"context"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ListActive(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("status = ?", "active").
		Order("name ASC").
		Find(&users).Error
	return users, err
}

// ListIDsExcept 通知扇出的收件人清单（排除发布者本人）
func (r *UserRepository) ListIDsExcept(ctx context.Context, excludeID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("status = ? AND id <> ?", "active", excludeID).
		Pluck("id", &ids).Error
	return ids, err
}
