package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bitfantasy/plulist/internal/list/compare"
	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"go.uber.org/zap"
)

var (
	// ErrUnknownListKind 未知列表类型
	ErrUnknownListKind = errors.New("unknown list kind")
	// ErrUnknownItemType 未知计价类型
	ErrUnknownItemType = errors.New("unknown item type")
)

// 比对只读取快照，不推进状态
type compareVersionStore interface {
	FindActive(ctx context.Context, kind entity.ListKind) (*entity.Version, error)
	ListFrozen(ctx context.Context, kind entity.ListKind) ([]entity.Version, error)
}

type compareItemStore interface {
	ListByVersion(ctx context.Context, versionID string) ([]entity.Item, error)
}

// CompareService 比对编排：物化当前/历史快照后调用纯比对引擎，
// 并处理计价类型切换的运营确认流程。
type CompareService struct {
	versions compareVersionStore
	items    compareItemStore
	logger   *zap.Logger
}

// NewCompareService 创建比对服务
func NewCompareService(repos *repository.Repositories, logger *zap.Logger) *CompareService {
	return &CompareService{
		versions: repos.Version,
		items:    repos.Item,
		logger:   logger,
	}
}

// CompareRequest 比对请求。行数据由外部解析器产出，按计价类型分文件上传。
type CompareRequest struct {
	ListKind        entity.ListKind `json:"list_kind"`
	ItemType        string          `json:"item_type"`
	Rows            []compare.Row   `json:"rows"`
	ConfirmTypeSwap bool            `json:"confirm_type_swap"`
}

// TypeSwap 计价类型切换候选：上传文件声明的类型与条目当前类型不一致
type TypeSwap struct {
	PLU          string `json:"plu"`
	SystemName   string `json:"system_name"`
	CurrentType  string `json:"current_type"`
	UploadedType string `json:"uploaded_type"`
}

// CompareResponse 比对响应
type CompareResponse struct {
	compare.Result
	IsFirstUpload     bool       `json:"is_first_upload"`
	DroppedDuplicates int        `json:"dropped_duplicates"`
	TypeSwapSuggested bool       `json:"type_swap_suggested"`
	TypeSwaps         []TypeSwap `json:"type_swaps,omitempty"`
}

// Compare 执行一次比对：
//  1. 取当前生效版本与保留期内全部冻结版本的条目作为比对基线
//     （无生效版本视为首次上传）；
//  2. 文件内按 PLU 去重后交给比对引擎分类；
//  3. 条目出现在另一计价类型的文件里时标记 type_swap_suggested，
//     只有 confirm_type_swap=true 才实际切换，否则保留原类型。
func (s *CompareService) Compare(ctx context.Context, req CompareRequest) (*CompareResponse, error) {
	if !req.ListKind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, req.ListKind)
	}
	if req.ItemType != entity.ItemTypePiece && req.ItemType != entity.ItemTypeWeight {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItemType, req.ItemType)
	}

	var currentItems []entity.Item
	isFirstUpload := false
	active, err := s.versions.FindActive(ctx, req.ListKind)
	switch {
	case err == nil:
		currentItems, err = s.items.ListByVersion(ctx, active.ID)
		if err != nil {
			return nil, fmt.Errorf("load current items: %w", err)
		}
	case errors.Is(err, repository.ErrNotFound):
		isFirstUpload = true
	default:
		return nil, fmt.Errorf("find active version: %w", err)
	}

	// 保留期内的全部冻结快照参与改号检测，从新到旧拼接，
	// 同名取最近一次出现（跳过一周的改号也能命中）
	frozen, err := s.versions.ListFrozen(ctx, req.ListKind)
	if err != nil {
		return nil, fmt.Errorf("list frozen versions: %w", err)
	}
	var previousItems []entity.Item
	for _, v := range frozen {
		items, err := s.items.ListByVersion(ctx, v.ID)
		if err != nil {
			return nil, fmt.Errorf("load previous items of %s: %w", v.ID, err)
		}
		previousItems = append(previousItems, items...)
	}

	rows, dropped := compare.Dedupe(req.Rows)

	result := compare.Compare(compare.Input{
		Rows:          rows,
		ItemType:      req.ItemType,
		ListKind:      req.ListKind,
		CurrentItems:  currentItems,
		PreviousItems: previousItems,
		IsFirstUpload: isFirstUpload,
	})

	swaps := s.applyTypeSwapPolicy(&result, currentItems, req)

	s.logger.Info("snapshot compared",
		zap.String("list_kind", string(req.ListKind)),
		zap.String("item_type", req.ItemType),
		zap.Int("rows", len(rows)),
		zap.Int("unchanged", result.Summary.Unchanged),
		zap.Int("new", result.Summary.New),
		zap.Int("plu_changed", result.Summary.PLUChanged),
		zap.Int("removed", result.Summary.Removed),
		zap.Int("conflicts", result.Summary.Conflicts),
		zap.Int("skipped", result.Summary.Skipped),
		zap.Int("type_swaps", len(swaps)))

	return &CompareResponse{
		Result:            result,
		IsFirstUpload:     isFirstUpload,
		DroppedDuplicates: dropped,
		TypeSwapSuggested: len(swaps) > 0,
		TypeSwaps:         swaps,
	}, nil
}

// applyTypeSwapPolicy 找出上传文件与当前类型不一致的条目。
// 未确认时把条目类型改回当前值，确认后保留上传文件的类型。
func (s *CompareService) applyTypeSwapPolicy(result *compare.Result, currentItems []entity.Item, req CompareRequest) []TypeSwap {
	currentTypeByPLU := make(map[string]string, len(currentItems))
	for _, it := range currentItems {
		currentTypeByPLU[it.PLU] = it.ItemType
	}

	var swaps []TypeSwap
	for i := range result.AllItems {
		item := &result.AllItems[i]
		curType, ok := currentTypeByPLU[item.PLU]
		if !ok || curType == req.ItemType {
			continue
		}
		swaps = append(swaps, TypeSwap{
			PLU:          item.PLU,
			SystemName:   item.SystemName,
			CurrentType:  curType,
			UploadedType: req.ItemType,
		})
		if !req.ConfirmTypeSwap {
			item.ItemType = curType
		}
	}
	return swaps
}
