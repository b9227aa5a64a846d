package service

import (
	"context"
	"fmt"
	"time"

	"github.com/d60-Lab/sociograph/internal/core"
	"github.com/d60-Lab/sociograph/internal/model"
	"github.com/d60-Lab/sociograph/internal/repository"
)

// storyLifetime 动态默认 24 小时过期
const storyLifetime = 24 * time.Hour

// StoryService 限时动态：发布与可见列表；CLS 动态只对作者挚友可见
type StoryService interface {
	Publish(ctx context.Context, authorID, contentType, content, privacyType string) (*model.Story, error)
	ListVisible(ctx context.Context, viewerID string) ([]*model.Story, error)
}

type storyService struct {
	storyRepo  repository.StoryRepository
	followRepo repository.FollowRepository
	now        func() time.Time
}

func NewStoryService(storyRepo repository.StoryRepository, followRepo repository.FollowRepository) StoryService {
	return &storyService{storyRepo: storyRepo, followRepo: followRepo, now: time.Now}
}

func (s *storyService) Publish(ctx context.Context, authorID, contentType, content, privacyType string) (*model.Story, error) {
	if contentType != model.StoryContentImage && contentType != model.StoryContentVideo {
		return nil, core.NewValidationError("invalid story content type.", core.CodeInvalidStory)
	}
	if privacyType == "" {
		privacyType = model.StoryPrivacyNormal
	}
	if privacyType != model.StoryPrivacyNormal && privacyType != model.StoryPrivacyCloseFriend {
		return nil, core.NewValidationError("invalid story privacy type.", core.CodeInvalidStory)
	}
	story := &model.Story{
		AuthorID:    authorID,
		ContentType: contentType,
		Content:     content,
		PrivacyType: privacyType,
		ActiveUntil: s.now().Add(storyLifetime),
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}
	return story, nil
}

func (s *storyService) ListVisible(ctx context.Context, viewerID string) ([]*model.Story, error) {
	followees, err := s.followRepo.ListFolloweeIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list followees: %w", err)
	}
	stories, err := s.storyRepo.ListVisible(ctx, viewerID, followees, s.now())
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}
