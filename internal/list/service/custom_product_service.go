package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/plulist/internal/list/compare"
	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"github.com/google/uuid"
)

// CustomProductService 自建商品管理。自建商品不随快照上传，
// 跨版本持续生效；PLU 与主列表冲突时由显示组合抑制，这里不校验。
type CustomProductService struct {
	customs *repository.CustomProductRepository
}

// NewCustomProductService 创建自建商品服务
func NewCustomProductService(repos *repository.Repositories) *CustomProductService {
	return &CustomProductService{customs: repos.CustomProduct}
}

func (s *CustomProductService) List(ctx context.Context, kind entity.ListKind) ([]entity.CustomProduct, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	return s.customs.ListByKind(ctx, kind)
}

// CustomProductRequest 创建/更新自建商品的请求体
type CustomProductRequest struct {
	PLU        string   `json:"plu"`
	Name       string   `json:"name"`
	ItemType   string   `json:"item_type"`
	Price      *float64 `json:"price"`
	CategoryID *string  `json:"category_id"`
}

func (s *CustomProductService) validate(req CustomProductRequest) error {
	// PLU 与名称的校验规则同上传行
	if err := (compare.Row{PLU: req.PLU, SystemName: req.Name}).Validate(); err != nil {
		return err
	}
	if req.ItemType != entity.ItemTypePiece && req.ItemType != entity.ItemTypeWeight {
		return fmt.Errorf("%w: %q", ErrUnknownItemType, req.ItemType)
	}
	return nil
}

func (s *CustomProductService) Create(ctx context.Context, kind entity.ListKind, req CustomProductRequest, createdBy string) (*entity.CustomProduct, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownListKind, kind)
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	cp := &entity.CustomProduct{
		ID:         uuid.New().String()[:32],
		ListKind:   kind,
		PLU:        req.PLU,
		Name:       req.Name,
		ItemType:   req.ItemType,
		Price:      req.Price,
		CategoryID: req.CategoryID,
		CreatedBy:  createdBy,
	}
	if err := s.customs.Create(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (s *CustomProductService) Update(ctx context.Context, id string, req CustomProductRequest) (*entity.CustomProduct, error) {
	cp, err := s.customs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	cp.PLU = req.PLU
	cp.Name = req.Name
	cp.ItemType = req.ItemType
	cp.Price = req.Price
	cp.CategoryID = req.CategoryID
	if err := s.customs.Update(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (s *CustomProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.customs.FindByID(ctx, id); err != nil {
		return err
	}
	return s.customs.Delete(ctx, id)
}
