package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sociograph/internal/middleware"
	"github.com/d60-Lab/sociograph/internal/service"
	"github.com/d60-Lab/sociograph/pkg/response"
)

// Follow 关注用户（目标私密则转待确认请求）
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Param user_id path string true "目标用户ID"
// @Success 201 {object} map[string]string
// @Failure 400 {object} core.ValidationError
// @Router /api/v1/users/{user_id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	actorID := middleware.UserID(c)
	permit, err := h.relService.ValidateFollow(c.Request.Context(), actorID, c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	outcome, err := h.relService.Follow(c.Request.Context(), permit)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg := "successfully followed"
	if outcome == service.OutcomePending {
		msg = "successfully created follow request."
	}
	response.Message(c, 201, msg)
}

// Unfollow 取消关注（或撤回待确认请求）
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Param user_id path string true "目标用户ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} core.ValidationError
// @Router /api/v1/users/{user_id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	actorID := middleware.UserID(c)
	permit, err := h.relService.ValidateUnfollow(c.Request.Context(), actorID, c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	outcome, err := h.relService.Unfollow(c.Request.Context(), permit)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg := "successfully unfollowed."
	if outcome == service.OutcomePending {
		msg = "successfully removed follow request."
	}
	response.Message(c, 200, msg)
}

// AddCloseFriend 添加挚友（只能从自己的粉丝里选）
// @Summary 添加挚友
// @Tags 关系链
// @Produce json
// @Param user_id path string true "目标用户ID"
// @Success 201 {object} map[string]string
// @Failure 400 {object} core.ValidationError
// @Router /api/v1/users/{user_id}/close-friend [post]
func (h *Handler) AddCloseFriend(c *gin.Context) {
	actorID := middleware.UserID(c)
	permit, err := h.relService.ValidateAddCloseFriend(c.Request.Context(), actorID, c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.relService.AddCloseFriend(c.Request.Context(), permit); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, 201, "successfully added user to your close friends list.")
}

// RemoveCloseFriend 移除挚友
// @Summary 移除挚友
// @Tags 关系链
// @Produce json
// @Param user_id path string true "目标用户ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} core.ValidationError
// @Router /api/v1/users/{user_id}/close-friend [delete]
func (h *Handler) RemoveCloseFriend(c *gin.Context) {
	actorID := middleware.UserID(c)
	permit, err := h.relService.ValidateRemoveCloseFriend(c.Request.Context(), actorID, c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.relService.RemoveCloseFriend(c.Request.Context(), permit); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, 200, "successfully removed user from your close friends list.")
}

// ListFollowers 查询粉丝列表（走缓存索引）
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	userID := c.Param("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	list, err := h.followerCache.Page(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}
