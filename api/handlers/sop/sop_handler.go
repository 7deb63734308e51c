package sop

import (
	"errors"
	"time"

	"backend/internal/auth"
	"backend/internal/common"
	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/models"
	sopgen "backend/internal/sop"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SOPHandler SOP 处理器
type SOPHandler struct {
	generator *sopgen.Generator
	sops      *models.SOPService
}

// NewSOPHandler 创建 SOP 处理器
func NewSOPHandler(generator *sopgen.Generator, sops *models.SOPService) *SOPHandler {
	return &SOPHandler{
		generator: generator,
		sops:      sops,
	}
}

// GenerateRequest SOP 生成请求
type GenerateRequest struct {
	Task string `json:"task" binding:"required"`
}

// Generate 生成 SOP
// @Summary 生成 SOP
// @Description 根据任务描述调用 AI 生成标准作业程序并持久化
// @Tags SOP
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "任务描述"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse "任务描述为空"
// @Failure 502 {object} common.APIResponse "AI 服务不可用或返回内容无法解析"
// @Router /api/sops/generate [post]
func (h *SOPHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "任务描述不能为空")
		return
	}

	userCtx, ok := auth.GetUserContext(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	start := time.Now()
	generated, err := h.generator.Generate(c.Request.Context(), req.Task)
	metrics.SOPGenerationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		switch {
		case errors.Is(err, sopgen.ErrMalformedGeneration):
			metrics.SOPGenerationsTotal.WithLabelValues("malformed").Inc()
			common.ResponseError(c, common.CodeUpstreamError, "AI 返回内容无法解析，请重试")
		case errors.Is(err, sopgen.ErrGenerationUnavailable):
			metrics.SOPGenerationsTotal.WithLabelValues("unavailable").Inc()
			common.ResponseError(c, common.CodeUpstreamError, "AI 生成服务暂时不可用，请稍后重试")
		default:
			logger.Error("SOP 生成失败", zap.Error(err))
			common.ResponseError(c, common.CodeInternalError, "SOP 生成失败")
		}
		return
	}

	record := &models.SOP{
		Title:       generated.Title,
		Description: generated.Description,
		Steps:       generated.Steps,
		CreatedBy:   userCtx.UserID,
	}

	if err := h.sops.Create(c.Request.Context(), record); err != nil {
		logger.Error("SOP 保存失败", zap.Error(err))
		common.ResponseError(c, common.CodeInternalError, "SOP 保存失败")
		return
	}

	metrics.SOPGenerationsTotal.WithLabelValues("success").Inc()
	logger.Info("SOP 生成成功",
		zap.String("sop_id", record.ID),
		zap.String("user_id", userCtx.UserID),
		zap.Int("steps", len(record.Steps)),
	)

	common.ResponseSuccess(c, record)
}

// List 列出当前用户的 SOP
// @Summary 列出当前用户的 SOP
// @Description 按创建时间倒序返回当前用户的全部 SOP
// @Tags SOP
// @Produce json
// @Success 200 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse "未认证"
// @Router /api/sops [get]
func (h *SOPHandler) List(c *gin.Context) {
	userCtx, ok := auth.GetUserContext(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	sops, err := h.sops.ListByUser(c.Request.Context(), userCtx.UserID)
	if err != nil {
		logger.Error("查询 SOP 列表失败", zap.Error(err))
		common.ResponseError(c, common.CodeInternalError, "查询失败")
		return
	}

	common.ResponseSuccess(c, sops)
}

// Get 获取单条 SOP
// @Summary 获取单条 SOP
// @Description 返回指定 ID 的 SOP，仅创建者可访问
// @Tags SOP
// @Produce json
// @Param id path string true "SOP ID"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse "无权访问"
// @Failure 404 {object} common.APIResponse "SOP 不存在"
// @Router /api/sops/{id} [get]
func (h *SOPHandler) Get(c *gin.Context) {
	userCtx, ok := auth.GetUserContext(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	sop, err := h.sops.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrSOPNotFound) {
			common.ResponseNotFound(c, "SOP 不存在")
			return
		}
		common.ResponseError(c, common.CodeInternalError, "查询失败")
		return
	}

	if sop.CreatedBy != userCtx.UserID {
		common.ResponseForbidden(c, "")
		return
	}

	common.ResponseSuccess(c, sop)
}
