package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"github.com/bitfantasy/plulist/internal/list/sse"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 发布批大小：条目与通知批量写入均按此切分
const publishBatchSize = 500

var (
	// ErrPublishInFlight 同一列表已有发布在进行（残留草稿）
	ErrPublishInFlight = errors.New("a publish for this list is already in flight")
	// ErrNoItems 空发布集
	ErrNoItems = errors.New("publish set contains no items")
	// ErrInvalidWeek 周号超出 1–53
	ErrInvalidWeek = errors.New("week number must be between 1 and 53")
)

// 发布序列依赖的最小存储面。具体仓库直接满足这些接口；
// 测试里用注入故障的假实现验证补偿路径。
type versionStore interface {
	FindActive(ctx context.Context, kind entity.ListKind) (*entity.Version, error)
	FindDraft(ctx context.Context, kind entity.ListKind) (*entity.Version, error)
	Create(ctx context.Context, v *entity.Version) error
	Freeze(ctx context.Context, id string, now time.Time) error
	Activate(ctx context.Context, kind entity.ListKind, id string, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type itemStore interface {
	InsertBatch(ctx context.Context, items []entity.Item) error
	DeleteByVersion(ctx context.Context, versionID string) error
}

type userStore interface {
	ListIDsExcept(ctx context.Context, excludeID string) ([]string, error)
}

type notificationStore interface {
	InsertBatch(ctx context.Context, notifications []entity.Notification) error
}

// PublishService 版本发布：draft → active → frozen 状态机的推进方。
// 底层存储没有跨表事务，序列按显式 saga 执行，条目写入失败时
// 补偿删除整个草稿版本，保证任何消费方都看不到未填满的 active 版本。
type PublishService struct {
	versions      versionStore
	items         itemStore
	users         userStore
	notifications notificationStore
	rdb           *redis.Client
	logger        *zap.Logger
	now           func() time.Time
}

// NewPublishService 创建发布服务
func NewPublishService(repos *repository.Repositories, rdb *redis.Client, logger *zap.Logger) *PublishService {
	return &PublishService{
		versions:      repos.Version,
		items:         repos.Item,
		users:         repos.User,
		notifications: repos.Notification,
		rdb:           rdb,
		logger:        logger,
		now:           time.Now,
	}
}

// PublishRequest 发布请求
type PublishRequest struct {
	ListKind   entity.ListKind
	WeekNumber int
	Year       int
	Items      []entity.Item
	CreatedBy  string
}

// PublishResult 发布结果
type PublishResult struct {
	VersionID         string `json:"version_id"`
	ItemCount         int    `json:"item_count"`
	NotificationCount int    `json:"notification_count"`
}

// Publish 执行发布序列：
//  1. 冻结当前生效版本（无生效版本属正常，首次发布）；
//  2. 写入草稿版本；
//  3. 条目按 500 一批写入，任一批失败 → 补偿删除草稿，发布失败；
//  4. 激活草稿（显式 draft→active 转换，前置校验无其他 active）；
//  5. 尽力而为的通知扇出，失败只记日志，绝不回滚已成功的发布。
func (s *PublishService) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if req.WeekNumber < 1 || req.WeekNumber > 53 {
		return nil, ErrInvalidWeek
	}
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	// 前置校验：残留草稿说明有发布在途或失败未补偿，拒绝并发推进
	if draft, err := s.versions.FindDraft(ctx, req.ListKind); err == nil {
		return nil, fmt.Errorf("%w: draft version %s", ErrPublishInFlight, draft.ID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check draft version: %w", err)
	}

	now := s.now()

	// Step 1: 冻结当前生效版本
	active, err := s.versions.FindActive(ctx, req.ListKind)
	switch {
	case err == nil:
		if err := s.versions.Freeze(ctx, active.ID, now); err != nil {
			return nil, fmt.Errorf("freeze active version %s: %w", active.ID, err)
		}
	case errors.Is(err, repository.ErrNotFound):
		// 首次发布，无可冻结版本
	default:
		return nil, fmt.Errorf("find active version: %w", err)
	}

	// Step 2: 写入草稿版本
	version := &entity.Version{
		ID:         uuid.New().String()[:32],
		ListKind:   req.ListKind,
		WeekNumber: req.WeekNumber,
		Year:       req.Year,
		Status:     entity.VersionStatusDraft,
		CreatedBy:  req.CreatedBy,
	}
	if err := s.versions.Create(ctx, version); err != nil {
		return nil, fmt.Errorf("create draft version: %w", err)
	}

	// Step 3: 条目分批写入
	items := make([]entity.Item, len(req.Items))
	copy(items, req.Items)
	for i := range items {
		items[i].VersionID = version.ID
		items[i].ListKind = req.ListKind
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()[:32]
		}
	}
	for start := 0; start < len(items); start += publishBatchSize {
		end := start + publishBatchSize
		if end > len(items) {
			end = len(items)
		}
		if err := s.items.InsertBatch(ctx, items[start:end]); err != nil {
			s.compensate(ctx, version.ID)
			return nil, fmt.Errorf("insert item batch %d-%d: %w", start, end, err)
		}
	}

	// Step 4: 激活
	if err := s.versions.Activate(ctx, req.ListKind, version.ID, now); err != nil {
		s.compensate(ctx, version.ID)
		return nil, fmt.Errorf("activate version %s: %w", version.ID, err)
	}

	// Step 5: 通知扇出（尽力而为）
	notified := s.fanOutNotifications(ctx, req, version)

	s.afterPublish(ctx, req.ListKind, version)

	return &PublishResult{
		VersionID:         version.ID,
		ItemCount:         len(items),
		NotificationCount: notified,
	}, nil
}

// compensate 补偿删除草稿版本及其条目。补偿自身失败也只能记日志：
// 残留草稿会阻断下一次发布，由运维处理。
func (s *PublishService) compensate(ctx context.Context, versionID string) {
	if err := s.items.DeleteByVersion(ctx, versionID); err != nil {
		s.logger.Error("compensating item delete failed", zap.String("version_id", versionID), zap.Error(err))
	}
	if err := s.versions.Delete(ctx, versionID); err != nil {
		s.logger.Error("compensating version delete failed", zap.String("version_id", versionID), zap.Error(err))
	}
}

func (s *PublishService) fanOutNotifications(ctx context.Context, req PublishRequest, version *entity.Version) int {
	userIDs, err := s.users.ListIDsExcept(ctx, req.CreatedBy)
	if err != nil {
		s.logger.Warn("notification fan-out: listing users failed", zap.Error(err))
		return 0
	}
	message := fmt.Sprintf("Neue %s-Liste für KW %d/%d veröffentlicht", req.ListKind, req.WeekNumber, req.Year)
	notifications := make([]entity.Notification, 0, len(userIDs))
	for _, uid := range userIDs {
		notifications = append(notifications, entity.Notification{
			ID:        uuid.New().String()[:32],
			UserID:    uid,
			ListKind:  req.ListKind,
			VersionID: version.ID,
			Message:   message,
		})
	}

	notified := 0
	for start := 0; start < len(notifications); start += publishBatchSize {
		end := start + publishBatchSize
		if end > len(notifications) {
			end = len(notifications)
		}
		if err := s.notifications.InsertBatch(ctx, notifications[start:end]); err != nil {
			s.logger.Warn("notification batch failed",
				zap.Int("from", start), zap.Int("to", end), zap.Error(err))
			continue
		}
		notified += end - start
		for _, n := range notifications[start:end] {
			sse.PublishNotification(n.UserID, string(n.ListKind), n.Message)
		}
	}
	return notified
}

// afterPublish 发布成功后的缓存失效与事件广播，全部尽力而为
func (s *PublishService) afterPublish(ctx context.Context, kind entity.ListKind, version *entity.Version) {
	if s.rdb != nil {
		key := activeVersionCacheKey(kind)
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			s.logger.Warn("active version cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
		payload := fmt.Sprintf(`{"list_kind":"%s","version_id":"%s"}`, kind, version.ID)
		if err := s.rdb.Publish(ctx, "plulist:published", payload).Err(); err != nil {
			s.logger.Warn("publish event emit failed", zap.Error(err))
		}
	}
	sse.PublishVersionPublished(string(kind), version.ID, version.WeekNumber, version.Year)
}

func activeVersionCacheKey(kind entity.ListKind) string {
	return fmt.Sprintf("plulist:active_version:%s", kind)
}
