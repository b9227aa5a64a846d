package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sociograph/internal/middleware"
	"github.com/d60-Lab/sociograph/internal/service"
	"github.com/d60-Lab/sociograph/pkg/response"
)

type signUpRequest struct {
	Username    string `json:"username" binding:"required,username"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Nickname    string `json:"nickName"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,len=11,numeric"`
	Password    string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type settingsRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"new_password" binding:"omitempty,min=8"`
	Username    string `json:"username" binding:"omitempty,username"`
	IsPrivate   *bool  `json:"is_private"`
}

type forgotPasswordRequest struct {
	Username string `json:"username" binding:"required"`
}

type resetPasswordRequest struct {
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token", token, h.tokenMaxAge, "/", "", true, true)
}

// SignUp 注册新帐号；email 和 phoneNumber 至少提供一个
// @Summary 注册
// @Tags 帐号
// @Accept json
// @Produce json
// @Param request body signUpRequest true "注册信息"
// @Success 201 {object} map[string]string
// @Failure 400 {object} core.ValidationError
// @Router /api/v1/auth/signup [post]
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	_, err := h.authService.SignUp(c.Request.Context(), service.SignUpInput{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Nickname:    req.Nickname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, 201, "Done")
}

// Login 登录并下发 httponly token cookie
// @Summary 登录
// @Tags 帐号
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} map[string]string
// @Failure 404 {object} core.ValidationError
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, _, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setTokenCookie(c, token)
	response.Message(c, 200, "successfully logined.")
}

// Logout 清掉 token cookie
// @Summary 登出
// @Tags 帐号
// @Success 200 {object} map[string]string
// @Router /api/v1/auth/logout [get]
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", true, true)
	response.Message(c, 200, "logged out.")
}

// Settings 修改设置；改密会重新下发 token，转公开会接收全部待确认请求
// @Summary 修改设置
// @Tags 帐号
// @Accept json
// @Produce json
// @Param request body settingsRequest true "设置变更"
// @Success 200 {object} map[string]string
// @Failure 400 {object} core.ValidationError
// @Router /api/v1/auth/settings [patch]
func (h *Handler) Settings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	userID := middleware.UserID(c)
	res, err := h.authService.ChangeSettings(c.Request.Context(), userID, service.SettingsInput{
		Password:    req.Password,
		NewPassword: req.NewPassword,
		Username:    req.Username,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if res.RevokeToken {
		token, err := h.authService.IssueToken(userID)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		h.setTokenCookie(c, token)
	}
	response.Message(c, 200, "settings updated successfully.")
}

// ForgotPassword 签发重置码（寄信由外部系统完成）
// @Summary 忘记密码
// @Tags 帐号
// @Accept json
// @Produce json
// @Param request body forgotPasswordRequest true "用户名"
// @Success 200 {object} map[string]string
// @Router /api/v1/auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if _, err := h.authService.ForgotPassword(c.Request.Context(), req.Username); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, 200, "a mail containing forgot password link will send to your email address.")
}

// ResetPassword 用重置码改密
// @Summary 重置密码
// @Tags 帐号
// @Accept json
// @Produce json
// @Param request body resetPasswordRequest true "重置码与新密码"
// @Success 200 {object} map[string]string
// @Failure 400 {object} core.ValidationError
// @Router /api/v1/auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), req.Code, req.Password); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, 200, "your password changed successfully.")
}
