package handler

import (
	"net/url"

	"github.com/bitfantasy/plulist/internal/list/service"
	"github.com/gin-gonic/gin"
)

// DisplayHandler 组合显示列表与导出
type DisplayHandler struct {
	displaySvc *service.DisplayService
	exportSvc  *service.ExportService
}

// NewDisplayHandler 创建显示处理器
func NewDisplayHandler(displaySvc *service.DisplayService, exportSvc *service.ExportService) *DisplayHandler {
	return &DisplayHandler{displaySvc: displaySvc, exportSvc: exportSvc}
}

// Get 当前生效版本的组合显示列表
// GET /api/v1/lists/:kind/display
func (h *DisplayHandler) Get(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	res, err := h.displaySvc.Compose(c.Request.Context(), kind)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, res)
}

// Export 把组合显示列表导出为 XLSX
// GET /api/v1/lists/:kind/export
func (h *DisplayHandler) Export(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	f, filename, err := h.exportSvc.Export(c.Request.Context(), kind)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+url.PathEscape(filename)+`"`)
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "导出写入失败: "+err.Error())
	}
}
