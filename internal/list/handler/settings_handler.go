package handler

import (
	"github.com/bitfantasy/plulist/internal/list/service"
	"github.com/gin-gonic/gin"
)

// SettingsHandler 显示设置
type SettingsHandler struct {
	svc *service.SettingsService
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get 读取显示设置（首次访问落默认值）
// GET /api/v1/lists/:kind/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	settings, err := h.svc.Get(c.Request.Context(), kind)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, settings)
}

// Update 更新显示设置，超时返回 409 提示刷新重试
// PUT /api/v1/lists/:kind/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	var body service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	body.UpdatedBy = GetUserID(c)
	settings, err := h.svc.Update(c.Request.Context(), kind, body)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, settings)
}
