package handler

import (
	"errors"

	"github.com/bitfantasy/plulist/internal/list/compare"
	"github.com/bitfantasy/plulist/internal/list/entity"
	"github.com/bitfantasy/plulist/internal/list/repository"
	"github.com/bitfantasy/plulist/internal/list/service"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	Compare       *CompareHandler
	Display       *DisplayHandler
	Version       *VersionHandler
	NamingRule    *NamingRuleHandler
	Category      *CategoryHandler
	CustomProduct *CustomProductHandler
	HiddenItem    *HiddenItemHandler
	Settings      *SettingsHandler
	Notification  *NotificationHandler
	SSE           *SSEHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Compare:       NewCompareHandler(svc.Compare, svc.Publish),
		Display:       NewDisplayHandler(svc.Display, svc.Export),
		Version:       NewVersionHandler(svc.Version),
		NamingRule:    NewNamingRuleHandler(svc.NamingRule),
		Category:      NewCategoryHandler(svc.Category),
		CustomProduct: NewCustomProductHandler(svc.CustomProduct),
		HiddenItem:    NewHiddenItemHandler(svc.HiddenItem),
		Settings:      NewSettingsHandler(svc.Settings),
		Notification:  NewNotificationHandler(svc.Notification),
		SSE:           NewSSEHandler(),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 状态冲突响应
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetListKind 从路径参数解析列表类型
func GetListKind(c *gin.Context) (entity.ListKind, bool) {
	kind := entity.ListKind(c.Param("kind"))
	if !kind.Valid() {
		BadRequest(c, "未知列表类型: "+c.Param("kind"))
		return "", false
	}
	return kind, true
}

// ServiceError 把服务层错误映射为统一响应
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "资源不存在")
	case errors.Is(err, service.ErrNoActiveList):
		NotFound(c, "该列表尚未发布任何版本")
	case errors.Is(err, service.ErrPublishInFlight):
		Conflict(c, "该列表已有发布在进行中")
	case errors.Is(err, repository.ErrActiveExists) || errors.Is(err, repository.ErrNotDraft):
		Conflict(c, "版本状态冲突: "+err.Error())
	case errors.Is(err, service.ErrSettingsTimeout):
		Conflict(c, "设置更新超时，请刷新后重试")
	case errors.Is(err, service.ErrUnknownListKind),
		errors.Is(err, service.ErrUnknownItemType),
		errors.Is(err, service.ErrInvalidWeek),
		errors.Is(err, service.ErrNoItems),
		errors.Is(err, service.ErrEmptyKeyword),
		errors.Is(err, service.ErrInvalidRulePosition),
		errors.Is(err, service.ErrEmptyCategoryName),
		errors.Is(err, service.ErrInvalidSortMode),
		errors.Is(err, service.ErrInvalidYellowWeeks),
		errors.Is(err, compare.ErrInvalidPLU),
		errors.Is(err, compare.ErrEmptyName):
		BadRequest(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}
