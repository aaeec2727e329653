package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/plulist/internal/list/display"
	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNoActiveList 该列表还没有任何已发布版本
var ErrNoActiveList = errors.New("no published list for this kind yet")

// 生效版本号缓存的有效期。发布时会主动失效，TTL 只是兜底。
const activeVersionCacheTTL = 10 * time.Minute

// DisplayService 显示组合编排：物化组合流水线的全部输入后调用纯引擎。
// 组合结果从不落库，渲染与设置变更都直接重算。
type DisplayService struct {
	repos  *repository.Repositories
	rdb    *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewDisplayService 创建显示服务
func NewDisplayService(repos *repository.Repositories, rdb *redis.Client, logger *zap.Logger) *DisplayService {
	return &DisplayService{
		repos:  repos,
		rdb:    rdb,
		logger: logger,
		now:    time.Now,
	}
}

// DisplayResponse 组合后的显示列表
type DisplayResponse struct {
	Version  *entity.Version      `json:"version"`
	Entries  []display.Entry      `json:"entries"`
	Stats    display.Stats        `json:"stats"`
	Settings *entity.ListSettings `json:"settings"`
}

// Compose 组合当前生效版本的显示列表
func (s *DisplayService) Compose(ctx context.Context, kind entity.ListKind) (*DisplayResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}

	version, err := s.activeVersion(ctx, kind)
	if err != nil {
		return nil, err
	}

	items, err := s.repos.Item.ListByVersion(ctx, version.ID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	customs, err := s.repos.CustomProduct.ListByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load custom products: %w", err)
	}
	hidden, err := s.repos.HiddenItem.PLUSet(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load hidden items: %w", err)
	}
	rules, err := s.repos.NamingRule.ListActive(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load naming rules: %w", err)
	}
	categories, err := s.repos.Category.ListByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	settings, err := s.repos.Settings.GetOrCreate(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	entries, stats := display.Compose(display.Input{
		Items:           items,
		CustomProducts:  customs,
		HiddenPLUs:      hidden,
		Rules:           rules,
		Categories:      categories,
		SortMode:        settings.SortMode,
		MarkYellowWeeks: settings.MarkYellowWeeks,
		VersionWeek:     version.WeekNumber,
		VersionYear:     version.Year,
		Now:             s.now(),
	})

	return &DisplayResponse{
		Version:  version,
		Entries:  entries,
		Stats:    stats,
		Settings: settings,
	}, nil
}

// activeVersion 经 Redis 缓存解析当前生效版本。缓存只存版本号，
// 未命中或缓存指向的版本已不存在时回退到数据库并回填。
func (s *DisplayService) activeVersion(ctx context.Context, kind entity.ListKind) (*entity.Version, error) {
	key := activeVersionCacheKey(kind)
	if s.rdb != nil {
		if id, err := s.rdb.Get(ctx, key).Result(); err == nil && id != "" {
			v, err := s.repos.Version.FindByID(ctx, id)
			if err == nil && v.Status == entity.VersionStatusActive {
				return v, nil
			}
			// 缓存过期指向：删掉走数据库
			if err := s.rdb.Del(ctx, key).Err(); err != nil {
				s.logger.Warn("stale active version cache cleanup failed", zap.Error(err))
			}
		} else if err != nil && err != redis.Nil {
			s.logger.Warn("active version cache read failed", zap.Error(err))
		}
	}

	v, err := s.repos.Version.FindActive(ctx, kind)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoActiveList, kind)
		}
		return nil, fmt.Errorf("find active version: %w", err)
	}
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, v.ID, activeVersionCacheTTL).Err(); err != nil {
			s.logger.Warn("active version cache write failed", zap.Error(err))
		}
	}
	return v, nil
}
