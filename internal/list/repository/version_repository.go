package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/plulist/internal/list/entity"
	"gorm.io/gorm"
)

// 版本状态机违例
var (
	ErrNoActiveVersion = errors.New("no active version")
	ErrNotDraft        = errors.New("version is not in draft state")
	ErrActiveExists    = errors.New("another version is already active")
)

type VersionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

func (r *VersionRepository) Create(ctx context.Context, v *entity.Version) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VersionRepository) FindByID(ctx context.Context, id string) (*entity.Version, error) {
	var v entity.Version
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &v, nil
}

// FindActive 当前生效版本，每个列表至多一个
func (r *VersionRepository) FindActive(ctx context.Context, kind entity.ListKind) (*entity.Version, error) {
	var v entity.Version
	err := r.db.WithContext(ctx).
		Where("list_kind = ? AND status = ?", kind, entity.VersionStatusActive).
		First(&v).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &v, nil
}

// FindDraft 残留草稿版本（发布中或发布失败未补偿的标志）
func (r *VersionRepository) FindDraft(ctx context.Context, kind entity.ListKind) (*entity.Version, error) {
	var v entity.Version
	err := r.db.WithContext(ctx).
		Where("list_kind = ? AND status = ?", kind, entity.VersionStatusDraft).
		First(&v).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &v, nil
}

// ListFrozen 冻结版本，按冻结时间从新到旧。保留期内的全部历史快照
// 都参与改号检测，过期的由清理任务移除。
func (r *VersionRepository) ListFrozen(ctx context.Context, kind entity.ListKind) ([]entity.Version, error) {
	var versions []entity.Version
	err := r.db.WithContext(ctx).
		Where("list_kind = ? AND status = ?", kind, entity.VersionStatusFrozen).
		Order("frozen_at DESC").
		Find(&versions).Error
	return versions, err
}

func (r *VersionRepository) List(ctx context.Context, kind entity.ListKind, limit int) ([]entity.Version, error) {
	var versions []entity.Version
	q := r.db.WithContext(ctx).
		Where("list_kind = ?", kind).
		Order("year DESC, week_number DESC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&versions).Error
	return versions, err
}

// Freeze 把当前生效版本转为冻结态。只更新 status=active 的行，
// 返回 ErrNoActiveVersion 表示没有可冻结的版本（首次发布属正常情况）。
func (r *VersionRepository) Freeze(ctx context.Context, id string, now time.Time) error {
	deleteAfter := now.Add(entity.FrozenRetention)
	res := r.db.WithContext(ctx).Model(&entity.Version{}).
		Where("id = ? AND status = ?", id, entity.VersionStatusActive).
		Updates(map[string]interface{}{
			"status":       entity.VersionStatusFrozen,
			"frozen_at":    now,
			"delete_after": deleteAfter,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoActiveVersion
	}
	return nil
}

// Activate 显式状态转换 draft → active。事务内先校验该列表没有
// 其他生效版本，再翻转目标草稿，避免"最后写入获胜"。
func (r *VersionRepository) Activate(ctx context.Context, kind entity.ListKind, id string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activeCount int64
		if err := tx.Model(&entity.Version{}).
			Where("list_kind = ? AND status = ? AND id <> ?", kind, entity.VersionStatusActive, id).
			Count(&activeCount).Error; err != nil {
			return err
		}
		if activeCount > 0 {
			return ErrActiveExists
		}
		res := tx.Model(&entity.Version{}).
			Where("id = ? AND status = ?", id, entity.VersionStatusDraft).
			Updates(map[string]interface{}{
				"status":       entity.VersionStatusActive,
				"published_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotDraft
		}
		return nil
	})
}

// Delete 补偿删除：移除版本及其全部条目
func (r *VersionRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("version_id = ?", id).Delete(&entity.Item{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&entity.Version{}, "id = ?", id).Error
}

// PurgeExpired 清理保留期已过的冻结版本，返回清理数量。
// 由外部保留任务通过维护接口触发。
func (r *VersionRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	var expired []entity.Version
	err := r.db.WithContext(ctx).
		Where("status = ? AND delete_after IS NOT NULL AND delete_after < ?", entity.VersionStatusFrozen, now).
		Find(&expired).Error
	if err != nil {
		return 0, err
	}
	for _, v := range expired {
		if err := r.Delete(ctx, v.ID); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}
