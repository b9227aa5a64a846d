package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/sociograph/internal/model"
)

type StoryRepository interface {
	Create(ctx context.Context, s *model.Story) error
	// ListVisible 取关注对象当前未过期的动态；CLS 动态要求 viewer 在作者挚友表里
	ListVisible(ctx context.Context, viewerID string, authorIDs []string, now time.Time) ([]*model.Story, error)
}

type storyRepository struct{ db *gorm.DB }

func NewStoryRepository(db *gorm.DB) StoryRepository { return &storyRepository{db: db} }

func (r *storyRepository) Create(ctx context.Context, s *model.Story) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *storyRepository) ListVisible(ctx context.Context, viewerID string, authorIDs []string, now time.Time) ([]*model.Story, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	closeFriend := r.db.Model(&model.CloseFriend{}).
		Select("1").
		Where("close_friends.owner_id = stories.author_id AND close_friends.friend_id = ?", viewerID)

	var stories []*model.Story
	err := r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("author_id IN ?", authorIDs).
		Where("active_until > ?", now).
		Where("privacy_type = ? OR EXISTS (?)", model.StoryPrivacyNormal, closeFriend).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}
