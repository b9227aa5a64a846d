package handler

import (
	"github.com/d60-Lab/sociograph/internal/cache"
	"github.com/d60-Lab/sociograph/internal/service"
)

// Handler 聚合各业务服务
type Handler struct {
	authService     service.AuthService
	relService      service.RelationshipService
	timelineService service.TimelineService
	postService     service.PostService
	storyService    service.StoryService
	followerCache   *cache.FollowerCache

	tokenMaxAge int // cookie 秒数
}

func New(
	authService service.AuthService,
	relService service.RelationshipService,
	timelineService service.TimelineService,
	postService service.PostService,
	storyService service.StoryService,
	followerCache *cache.FollowerCache,
	tokenMaxAge int,
) *Handler {
	return &Handler{
		authService:     authService,
		relService:      relService,
		timelineService: timelineService,
		postService:     postService,
		storyService:    storyService,
		followerCache:   followerCache,
		tokenMaxAge:     tokenMaxAge,
	}
}
