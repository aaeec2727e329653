package handler

import (
	"strconv"

	"github.com/bitfantasy/plulist/internal/list/service"
	"github.com/gin-gonic/gin"
)

// VersionHandler 版本查询、发布后条目维护与保留期清理
type VersionHandler struct {
	svc *service.VersionService
}

// NewVersionHandler 创建版本处理器
func NewVersionHandler(svc *service.VersionService) *VersionHandler {
	return &VersionHandler{svc: svc}
}

// List 版本历史
// GET /api/v1/lists/:kind/versions?limit=20
func (h *VersionHandler) List(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	versions, err := h.svc.List(c.Request.Context(), kind, limit)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": versions})
}

// Get 版本详情（含条目）
// GET /api/v1/versions/:id
func (h *VersionHandler) Get(c *gin.Context) {
	v, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, v)
}

// RenameItem 改条目显示名/分组（发布后唯一允许的条目变更）
// PUT /api/v1/items/:id/display
func (h *VersionHandler) RenameItem(c *gin.Context) {
	var body service.RenameItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	item, err := h.svc.RenameItem(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, item)
}

// Purge 清理保留期已过的冻结版本
// POST /api/v1/maintenance/purge
func (h *VersionHandler) Purge(c *gin.Context) {
	purged, err := h.svc.PurgeExpired(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"purged": purged})
}
