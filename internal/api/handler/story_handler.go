package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sociograph/internal/middleware"
	"github.com/d60-Lab/sociograph/pkg/response"
)

type createStoryRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=IMG VID"`
	Content     string `json:"content" binding:"required"`
	PrivacyType string `json:"privacy_type" binding:"omitempty,oneof=NRL CLS"`
}

// CreateStory 发布限时动态；CLS 仅挚友可见
// @Summary 发布动态
// @Tags 动态
// @Accept json
// @Produce json
// @Param request body createStoryRequest true "动态内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} core.ValidationError
// @Router /api/v1/stories [post]
func (h *Handler) CreateStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	story, err := h.storyService.Publish(c.Request.Context(), middleware.UserID(c), req.ContentType, req.Content, req.PrivacyType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": story.ID})
}

// ListStories 关注对象当前可见的动态
// @Summary 动态列表
// @Tags 动态
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/stories [get]
func (h *Handler) ListStories(c *gin.Context) {
	stories, err := h.storyService.ListVisible(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, stories)
}
