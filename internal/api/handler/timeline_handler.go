package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/sociograph/internal/middleware"
	"github.com/d60-Lab/sociograph/internal/model"
	"github.com/d60-Lab/sociograph/pkg/response"
)

type timelinePost struct {
	ID        string   `json:"id"`
	AuthorID  string   `json:"author_id"`
	Caption   string   `json:"caption"`
	CreatedAt string   `json:"created_at"`
	Hashtags  []string `json:"hashtags,omitempty"`
}

func toTimelinePost(p *model.Post) timelinePost {
	out := timelinePost{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, h := range p.Hashtags {
		out.Hashtags = append(out.Hashtags, h.Title)
	}
	return out
}

// Timeline 拉取时间线（最多 5 条，可能不足）
// @Summary 时间线
// @Tags 时间线
// @Produce json
// @Success 200 {object} response.Response{data=[]timelinePost}
// @Router /api/v1/timeline [get]
func (h *Handler) Timeline(c *gin.Context) {
	posts, err := h.timelineService.Assemble(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]timelinePost, 0, len(posts))
	for _, p := range posts {
		out = append(out, toTimelinePost(p))
	}
	response.Success(c, out)
}
