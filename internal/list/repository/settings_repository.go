package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetOrCreate 每个列表一行的设置单例，首次访问时落默认值
func (r *SettingsRepository) GetOrCreate(ctx context.Context, kind entity.ListKind) (*entity.ListSettings, error) {
	var s entity.ListSettings
	err := r.db.WithContext(ctx).Where("list_kind = ?", kind).First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	s = entity.ListSettings{
		ID:              uuid.New().String()[:32],
		ListKind:        kind,
		MarkYellowWeeks: 2,
		SortMode:        entity.SortModeAlphabetical,
	}
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Update(ctx context.Context, s *entity.ListSettings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
