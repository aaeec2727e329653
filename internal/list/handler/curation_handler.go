package handler

import (
	"github.com/bitfantasy/plulist/internal/list/service"
	"github.com/gin-gonic/gin"
)

// ============================================================
// Naming Rule Handler
// ============================================================

type NamingRuleHandler struct {
	svc *service.NamingRuleService
}

func NewNamingRuleHandler(svc *service.NamingRuleService) *NamingRuleHandler {
	return &NamingRuleHandler{svc: svc}
}

// List 规则列表（按创建顺序，即应用顺序）
// GET /api/v1/lists/:kind/rules
func (h *NamingRuleHandler) List(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	rules, err := h.svc.List(c.Request.Context(), kind)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": rules})
}

type ruleBody struct {
	Keyword  string `json:"keyword" binding:"required"`
	Position string `json:"position" binding:"required"`
}

// Create 新建规则
// POST /api/v1/lists/:kind/rules
func (h *NamingRuleHandler) Create(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	var body ruleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	rule, err := h.svc.Create(c.Request.Context(), kind, body.Keyword, body.Position)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, rule)
}

// Update 更新规则（关键词/位置/启用状态）
// PUT /api/v1/rules/:id
func (h *NamingRuleHandler) Update(c *gin.Context) {
	var body service.UpdateRuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	rule, err := h.svc.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, rule)
}

// Delete 删除规则
// DELETE /api/v1/rules/:id
func (h *NamingRuleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": c.Param("id")})
}

// Preview 按当前启用规则试算名称，不落库
// POST /api/v1/lists/:kind/rules/preview
func (h *NamingRuleHandler) Preview(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	var body struct {
		Names []string `json:"names" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	preview, err := h.svc.Preview(c.Request.Context(), kind, body.Names)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, preview)
}

// ============================================================
// Category Handler
// ============================================================

type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List 分组列表
// GET /api/v1/lists/:kind/categories
func (h *CategoryHandler) List(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	categories, err := h.svc.List(c.Request.Context(), kind)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": categories})
}

// Create 新建分组
// POST /api/v1/lists/:kind/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	var body service.CategoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	category, err := h.svc.Create(c.Request.Context(), kind, body)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, category)
}

// Update 更新分组
// PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var body service.CategoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	category, err := h.svc.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, category)
}

// Delete 删除分组，引用条目回到未分类
// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": c.Param("id")})
}

// AutoAssign 按分组关键词自动指派未分类条目
// POST /api/v1/lists/:kind/categories/auto-assign
func (h *CategoryHandler) AutoAssign(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	assigned, err := h.svc.AutoAssign(c.Request.Context(), kind)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"assigned": assigned})
}

// ============================================================
// Custom Product Handler
// ============================================================

type CustomProductHandler struct {
	svc *service.CustomProductService
}

func NewCustomProductHandler(svc *service.CustomProductService) *CustomProductHandler {
	return &CustomProductHandler{svc: svc}
}

// List 自建商品列表
// GET /api/v1/lists/:kind/custom-products
func (h *CustomProductHandler) List(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	products, err := h.svc.List(c.Request.Context(), kind)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": products})
}

// Create 新建自建商品
// POST /api/v1/lists/:kind/custom-products
func (h *CustomProductHandler) Create(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	var body service.CustomProductRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	cp, err := h.svc.Create(c.Request.Context(), kind, body, GetUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, cp)
}

// Update 更新自建商品
// PUT /api/v1/custom-products/:id
func (h *CustomProductHandler) Update(c *gin.Context) {
	var body service.CustomProductRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	cp, err := h.svc.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, cp)
}

// Delete 删除自建商品
// DELETE /api/v1/custom-products/:id
func (h *CustomProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": c.Param("id")})
}

// ============================================================
// Hidden Item Handler
// ============================================================

type HiddenItemHandler struct {
	svc *service.HiddenItemService
}

func NewHiddenItemHandler(svc *service.HiddenItemService) *HiddenItemHandler {
	return &HiddenItemHandler{svc: svc}
}

// List 隐藏 PLU 列表
// GET /api/v1/lists/:kind/hidden
func (h *HiddenItemHandler) List(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	hidden, err := h.svc.List(c.Request.Context(), kind)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": hidden})
}

// Hide 隐藏一个 PLU（幂等）
// POST /api/v1/lists/:kind/hidden
func (h *HiddenItemHandler) Hide(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	var body struct {
		PLU string `json:"plu" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "请求体格式错误: "+err.Error())
		return
	}
	hidden, err := h.svc.Hide(c.Request.Context(), kind, body.PLU, GetUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, hidden)
}

// Unhide 取消隐藏
// DELETE /api/v1/lists/:kind/hidden/:plu
func (h *HiddenItemHandler) Unhide(c *gin.Context) {
	kind, ok := GetListKind(c)
	if !ok {
		return
	}
	if err := h.svc.Unhide(c.Request.Context(), kind, c.Param("plu")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"plu": c.Param("plu")})
}
