package automation

import (
	"errors"

	"backend/internal/auth"
	"backend/internal/automation"
	"backend/internal/common"
	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AutomationHandler 自动化处理器
type AutomationHandler struct {
	service  *automation.Service
	provider string
}

// NewAutomationHandler 创建自动化处理器
func NewAutomationHandler(service *automation.Service, providerName string) *AutomationHandler {
	return &AutomationHandler{
		service:  service,
		provider: providerName,
	}
}

// CreateRequest 确认自动化请求
type CreateRequest struct {
	SOPID         string   `json:"sopId" binding:"required"`
	ConnectedApps []string `json:"connectedApps" binding:"required"`
}

// SuggestResponse 建议响应
type SuggestResponse struct {
	Suggestions []automation.SuggestedAutomation `json:"suggestions"`
	Message     string                           `json:"message"`
}

// Suggest 计算 SOP 的自动化建议
// @Summary 计算 SOP 的自动化建议
// @Description 扫描 SOP 步骤文本，按关键词匹配给出自动化建议（不持久化）
// @Tags Automation
// @Produce json
// @Param sopId path string true "SOP ID"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse "无权访问"
// @Failure 404 {object} common.APIResponse "SOP 不存在"
// @Router /api/automations/suggest/{sopId} [get]
func (h *AutomationHandler) Suggest(c *gin.Context) {
	userCtx, ok := auth.GetUserContext(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	suggestions, err := h.service.Suggest(c.Request.Context(), c.Param("sopId"), userCtx.UserID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	metrics.SuggestionsComputedTotal.Inc()

	message := "根据 SOP 步骤找到以下自动化建议"
	if len(suggestions) == 0 {
		message = "未找到适用的自动化建议"
	}

	common.ResponseSuccess(c, SuggestResponse{
		Suggestions: suggestions,
		Message:     message,
	})
}

// Create 确认一条自动化建议
// @Summary 确认一条自动化建议
// @Description 校验归属后向自动化平台创建工作流，并持久化 active 状态的自动化记录
// @Tags Automation
// @Accept json
// @Produce json
// @Param request body CreateRequest true "确认请求参数"
// @Success 201 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse "参数错误"
// @Failure 403 {object} common.APIResponse "无权访问"
// @Failure 404 {object} common.APIResponse "SOP 不存在"
// @Failure 502 {object} common.APIResponse "自动化平台不可用"
// @Router /api/automations [post]
func (h *AutomationHandler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "参数错误: "+err.Error())
		return
	}

	userCtx, ok := auth.GetUserContext(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	record, err := h.service.Confirm(c.Request.Context(), req.SOPID, userCtx.UserID, req.ConnectedApps)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	metrics.AutomationsCreatedTotal.WithLabelValues(h.provider).Inc()

	common.ResponseCreated(c, record)
}

// List 列出当前用户的自动化记录
// @Summary 列出当前用户的自动化记录
// @Description 按创建时间倒序返回当前用户已确认的全部自动化
// @Tags Automation
// @Produce json
// @Success 200 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse "未认证"
// @Router /api/automations [get]
func (h *AutomationHandler) List(c *gin.Context) {
	userCtx, ok := auth.GetUserContext(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	automations, err := h.service.List(c.Request.Context(), userCtx.UserID)
	if err != nil {
		logger.Error("查询自动化列表失败", zap.Error(err))
		common.ResponseError(c, common.CodeInternalError, "查询失败")
		return
	}

	common.ResponseSuccess(c, automations)
}

// respondServiceError 将业务错误映射为响应
func (h *AutomationHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrSOPNotFound):
		common.ResponseNotFound(c, "SOP 不存在")
	case errors.Is(err, automation.ErrForbidden):
		common.ResponseForbidden(c, "")
	case errors.Is(err, automation.ErrNoAppsSelected):
		common.ResponseBadRequest(c, "请至少选择一个关联应用")
	case errors.Is(err, automation.ErrProviderUnavailable):
		common.ResponseError(c, common.CodeUpstreamError, "自动化平台暂时不可用，请稍后重试")
	default:
		logger.Error("自动化操作失败", zap.Error(err))
		common.ResponseError(c, common.CodeInternalError, "操作失败")
	}
}
