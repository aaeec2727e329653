package repository

import (
	"context"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"gorm.io/gorm"
)

type NamingRuleRepository struct {
	db *gorm.DB
}

func NewNamingRuleRepository(db *gorm.DB) *NamingRuleRepository {
	return &NamingRuleRepository{db: db}
}

func (r *NamingRuleRepository) Create(ctx context.Context, rule *entity.NamingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *NamingRuleRepository) FindByID(ctx context.Context, id string) (*entity.NamingRule, error) {
	var rule entity.NamingRule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &rule, nil
}

// ListByKind 按创建顺序返回，应用顺序即创建顺序
func (r *NamingRuleRepository) ListByKind(ctx context.Context, kind entity.ListKind) ([]entity.NamingRule, error) {
	var rules []entity.NamingRule
	err := r.db.WithContext(ctx).
		Where("list_kind = ?", kind).
		Order("created_at ASC").
		Find(&rules).Error
	return rules, err
}

// ListActive 启用中的规则，按创建顺序
func (r *NamingRuleRepository) ListActive(ctx context.Context, kind entity.ListKind) ([]entity.NamingRule, error) {
	var rules []entity.NamingRule
	err := r.db.WithContext(ctx).
		Where("list_kind = ? AND is_active = ?", kind, true).
		Order("created_at ASC").
		Find(&rules).Error
	return rules, err
}

func (r *NamingRuleRepository) Update(ctx context.Context, rule *entity.NamingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *NamingRuleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.NamingRule{}, "id = ?", id).Error
}
