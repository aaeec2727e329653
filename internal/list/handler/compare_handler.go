package handler

import (
	"github.com/bitfantasy/plulist/internal/list/compare"
	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/service"
	"github.com/gin-gonic/gin"
)

// CompareHandler 上传比对与发布
type CompareHandler struct {
	compareSvc *service.CompareService
	publishSvc *service.PublishService
}

// NewCompareHandler 创建比对处理器
func NewCompareHandler(compareSvc *service.CompareService, publishSvc *service.PublishService) *CompareHandler {
	return &CompareHandler{compareSvc: compareSvc, publishSvc: publishSvc}
}

type compareBody struct {
	ItemType        string        `json:"item_type" binding:"required"`
	Rows            []compare.Row `json:"rows" binding:"required"`
	ConfirmTypeSwap bool          `json:"confirm_type_swap"`
}

// Compare 比对上传行与当前列表
// POST /api/v1/lists/:kind/compare
func (h *CompareHandler) Compare(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	var body compareBody
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	res, err := h.compareSvc.Compare(c.Request.Context(), service.CompareRequest{
		ListKind:        kind,
		ItemType:        body.ItemType,
		Rows:            body.Rows,
		ConfirmTypeSwap: body.ConfirmTypeSwap,
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, res)
}

type publishBody struct {
	WeekNumber int                `json:"week_number" binding:"required"`
	Year       int                `json:"year" binding:"required"`
	Items      []entity.Item      `json:"items" binding:"required"`
	Conflicts  []compare.Conflict `json:"conflicts"`
}

// Publish 发布新版本。请求携带比对结果的条目与已裁决的冲突；
// 未裁决的冲突会被丢弃，不进入发布集合。
// POST /api/v1/lists/:kind/publish
func (h *CompareHandler) Publish(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	var body publishBody
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}

	items := body.Items
	items = append(items, compare.ResolveConflicts(body.Conflicts, "")...)

	res, err := h.publishSvc.Publish(c.Request.Context(), service.PublishRequest{
		ListKind:   kind,
		WeekNumber: body.WeekNumber,
		Year:       body.Year,
		Items:      items,
		CreatedBy:  GetUserID(c),
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, res)
}
