package auth

import (
	"errors"

	"backend/internal/auth"
	"backend/internal/common"
	"backend/internal/config"
	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	users    *models.UserService
	sessions *auth.SessionService
	cfg      *config.SessionConfig
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(users *models.UserService, sessions *auth.SessionService, cfg *config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 使用邮箱、昵称和密码注册新用户，注册成功后自动登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册请求参数"
// @Success 201 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse "参数错误"
// @Failure 409 {object} common.APIResponse "邮箱已被注册"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "参数错误: "+err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		common.ResponseError(c, common.CodeInternalError, "注册失败")
		return
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			common.ResponseError(c, common.CodeConflict, "邮箱已被注册")
			return
		}
		logger.Error("创建用户失败", zap.Error(err))
		common.ResponseError(c, common.CodeInternalError, "注册失败")
		return
	}

	metrics.UserRegistrationsTotal.Inc()

	// 注册成功直接建立会话
	if err := h.issueSession(c, user.ID); err != nil {
		common.ResponseError(c, common.CodeInternalError, "创建会话失败")
		return
	}

	common.ResponseCreated(c, user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 使用邮箱和密码登录，成功后通过 Cookie 下发会话令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求参数"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse "参数错误"
// @Failure 401 {object} common.APIResponse "认证失败"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			// 不区分用户不存在和密码错误
			common.ResponseUnauthorized(c, "邮箱或密码错误")
			return
		}
		logger.Error("查询用户失败", zap.Error(err))
		common.ResponseError(c, common.CodeInternalError, "登录失败")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		common.ResponseUnauthorized(c, "邮箱或密码错误")
		return
	}

	if err := h.issueSession(c, user.ID); err != nil {
		common.ResponseError(c, common.CodeInternalError, "创建会话失败")
		return
	}

	common.ResponseSuccess(c, user)
}

// Logout 用户登出
// @Summary 用户登出
// @Description 撤销当前会话并清除 Cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} common.APIResponse "登出成功"
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cfg.CookieName); err == nil && token != "" {
		if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
			// 记录错误但不中断登出流程
			logger.Warn("撤销会话失败", zap.Error(err))
		}
	}

	h.clearSessionCookie(c)
	common.ResponseSuccessMessage(c, "登出成功", nil)
}

// Me 获取当前登录用户
// @Summary 获取当前登录用户
// @Description 返回当前会话对应的用户信息
// @Tags Auth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse "未认证"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx, ok := auth.GetUserContext(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			common.ResponseUnauthorized(c, "用户不存在")
			return
		}
		common.ResponseError(c, common.CodeInternalError, "查询用户失败")
		return
	}

	common.ResponseSuccess(c, user)
}

// issueSession 创建会话并通过 Cookie 下发令牌
func (h *AuthHandler) issueSession(c *gin.Context, userID string) error {
	session, err := h.sessions.Create(c.Request.Context(), userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		logger.Error("创建会话失败", zap.Error(err), zap.String("user_id", userID))
		return err
	}

	maxAge := h.cfg.TTLHours * 3600
	c.SetCookie(h.cfg.CookieName, session.Token, maxAge, "/", "", h.cfg.CookieSecure, true)
	return nil
}

// clearSessionCookie 清除会话 Cookie
func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.CookieSecure, true)
}
