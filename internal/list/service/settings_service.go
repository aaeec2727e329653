package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"go.uber.org/zap"
)

var (
	// ErrSettingsTimeout 设置更新超时，提示前端重载后重试
	ErrSettingsTimeout = errors.New("settings update timed out, reload and retry")
	// ErrInvalidSortMode 未知排序模式
	ErrInvalidSortMode = errors.New("unknown sort mode")
	// ErrInvalidYellowWeeks 新品高亮周数必须非负
	ErrInvalidYellowWeeks = errors.New("mark_yellow_weeks must not be negative")
)

// 设置更新的上限时长，超过即按冲突处理
const settingsUpdateTimeout = 12 * time.Second

type settingsStore interface {
	GetOrCreate(ctx context.Context, kind entity.ListKind) (*entity.ListSettings, error)
	Update(ctx context.Context, s *entity.ListSettings) error
}

// SettingsService 每列表一份的显示设置单例
type SettingsService struct {
	settings settingsStore
	logger   *zap.Logger
	timeout  time.Duration
}

// NewSettingsService 创建设置服务
func NewSettingsService(repos *repository.Repositories, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		settings: repos.Settings,
		logger:   logger,
		timeout:  settingsUpdateTimeout,
	}
}

func (s *SettingsService) Get(ctx context.Context, kind entity.ListKind) (*entity.ListSettings, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	return s.settings.GetOrCreate(ctx, kind)
}

// UpdateSettingsRequest 局部更新，nil 字段保持不变
type UpdateSettingsRequest struct {
	MarkYellowWeeks *int    `json:"mark_yellow_weeks"`
	SortMode        *string `json:"sort_mode"`
	UpdatedBy       string  `json:"-"`
}

// Update 更新显示设置。整个操作限时执行，超时映射为
// ErrSettingsTimeout，由调用方提示重载后重试。
func (s *SettingsService) Update(ctx context.Context, kind entity.ListKind, req UpdateSettingsRequest) (*entity.ListSettings, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	if req.MarkYellowWeeks != nil && *req.MarkYellowWeeks < 0 {
		return nil, ErrInvalidYellowWeeks
	}
	if req.SortMode != nil && *req.SortMode != entity.SortModeAlphabetical && *req.SortMode != entity.SortModeByCategory {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortMode, *req.SortMode)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	settings, err := s.settings.GetOrCreate(ctx, kind)
	if err != nil {
		return nil, s.mapTimeout(err)
	}
	if req.MarkYellowWeeks != nil {
		settings.MarkYellowWeeks = *req.MarkYellowWeeks
	}
	if req.SortMode != nil {
		settings.SortMode = *req.SortMode
	}
	settings.UpdatedBy = req.UpdatedBy

	if err := s.settings.Update(ctx, settings); err != nil {
		return nil, s.mapTimeout(err)
	}
	return settings, nil
}

func (s *SettingsService) mapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("settings update exceeded deadline", zap.Error(err))
		return ErrSettingsTimeout
	}
	return err
}
