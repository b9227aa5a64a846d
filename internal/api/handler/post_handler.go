package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sociograph/internal/middleware"
	"github.com/d60-Lab/sociograph/pkg/response"
)

type createPostRequest struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags" binding:"max=30,dive,min=1,max=250"`
}

// CreatePost 发帖（帖子与标签关联同事务落地）
// @Summary 发帖
// @Tags 帖子
// @Accept json
// @Produce json
// @Param request body createPostRequest true "帖子内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postService.Publish(c.Request.Context(), middleware.UserID(c), req.Caption, req.Hashtags)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": post.ID})
}

// LikePost 点赞
// @Summary 点赞帖子
// @Tags 帖子
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 201 {object} map[string]string
// @Failure 400 {object} core.ValidationError
// @Router /api/v1/posts/{post_id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	if err := h.postService.Like(c.Request.Context(), middleware.UserID(c), c.Param("post_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, 201, "post liked.")
}

// UnlikePost 取消点赞
// @Summary 取消点赞
// @Tags 帖子
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} core.ValidationError
// @Router /api/v1/posts/{post_id}/like [delete]
func (h *Handler) UnlikePost(c *gin.Context) {
	if err := h.postService.Unlike(c.Request.Context(), middleware.UserID(c), c.Param("post_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, 200, "like removed.")
}
