package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/naming"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"github.com/google/uuid"
)

var (
	// ErrEmptyKeyword 规则关键词不能为空
	ErrEmptyKeyword = errors.New("rule keyword must not be empty")
	// ErrInvalidRulePosition 位置只能是 PREFIX 或 SUFFIX
	ErrInvalidRulePosition = errors.New("rule position must be PREFIX or SUFFIX")
)

// NamingRuleService 命名规则管理与预览
type NamingRuleService struct {
	rules *repository.NamingRuleRepository
}

// NewNamingRuleService 创建命名规则服务
func NewNamingRuleService(repos *repository.Repositories) *NamingRuleService {
	return &NamingRuleService{rules: repos.NamingRule}
}

func (s *NamingRuleService) List(ctx context.Context, kind entity.ListKind) ([]entity.NamingRule, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	return s.rules.ListByKind(ctx, kind)
}

func (s *NamingRuleService) Create(ctx context.Context, kind entity.ListKind, keyword, position string) (*entity.NamingRule, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	if position != entity.RulePositionPrefix && position != entity.RulePositionSuffix {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRulePosition, position)
	}
	rule := &entity.NamingRule{
		ID:       uuid.New().String()[:32],
		ListKind: kind,
		Keyword:  keyword,
		Position: position,
		IsActive: true,
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// UpdateRuleRequest 局部更新，nil 字段保持不变
type UpdateRuleRequest struct {
	Keyword  *string `json:"keyword"`
	Position *string `json:"position"`
	IsActive *bool   `json:"is_active"`
}

func (s *NamingRuleService) Update(ctx context.Context, id string, req UpdateRuleRequest) (*entity.NamingRule, error) {
	rule, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Keyword != nil {
		if *req.Keyword == "" {
			return nil, ErrEmptyKeyword
		}
		rule.Keyword = *req.Keyword
	}
	if req.Position != nil {
		if *req.Position != entity.RulePositionPrefix && *req.Position != entity.RulePositionSuffix {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRulePosition, *req.Position)
		}
		rule.Position = *req.Position
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *NamingRuleService) Delete(ctx context.Context, id string) error {
	if _, err := s.rules.FindByID(ctx, id); err != nil {
		return err
	}
	return s.rules.Delete(ctx, id)
}

// Preview 按当前启用规则试算一批名称，不落库
func (s *NamingRuleService) Preview(ctx context.Context, kind entity.ListKind, names []string) (map[string]string, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	rules, err := s.rules.ListActive(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = naming.Apply(name, rules)
	}
	return out, nil
}
