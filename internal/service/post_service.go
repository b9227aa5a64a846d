package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/sociograph/internal/core"
	"github.com/d60-Lab/sociograph/internal/model"
	"github.com/d60-Lab/sociograph/internal/repository"
)

// PostService 发帖与点赞
type PostService interface {
	// Publish 在一个事务内落地帖子与标签关联
	Publish(ctx context.Context, authorID, caption string, hashtags []string) (*model.Post, error)
	Like(ctx context.Context, userID, postID string) error
	Unlike(ctx context.Context, userID, postID string) error
}

type postService struct {
	db       *gorm.DB
	postRepo repository.PostRepository
}

func NewPostService(db *gorm.DB, postRepo repository.PostRepository) PostService {
	return &postService{db: db, postRepo: postRepo}
}

func (s *postService) Publish(ctx context.Context, authorID, caption string, hashtags []string) (*model.Post, error) {
	post := &model.Post{
		ID:       uuid.New().String(),
		AuthorID: authorID,
		Caption:  caption,
		IsActive: true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for _, title := range dedupeTitles(hashtags) {
			var h model.Hashtag
			err := tx.Where("title = ?", title).
				Attrs(model.Hashtag{ID: uuid.New().String(), Title: title}).
				FirstOrCreate(&h).Error
			if err != nil {
				return err
			}
			if err := tx.Model(post).Association("Hashtags").Append(&h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("publish post: %w", err)
	}
	return post, nil
}

// fetchActivePost 点赞公共前置：帖子必须存在且有效
func (s *postService) fetchActivePost(ctx context.Context, postID string) (*model.Post, error) {
	post, err := s.postRepo.GetActive(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.NewValidationError("post not found.", core.CodeInvalidPost)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch post: %w", err)
	}
	return post, nil
}

func (s *postService) Like(ctx context.Context, userID, postID string) error {
	post, err := s.fetchActivePost(ctx, postID)
	if err != nil {
		return err
	}
	liked, err := s.postRepo.LikeExists(ctx, userID, post.ID)
	if err != nil {
		return fmt.Errorf("check like: %w", err)
	}
	if liked {
		return core.NewValidationError("you have already liked this post.", core.CodeDuplicateLike)
	}
	if err := s.postRepo.CreateLike(ctx, userID, post.ID); err != nil {
		return fmt.Errorf("create like: %w", err)
	}
	return nil
}

func (s *postService) Unlike(ctx context.Context, userID, postID string) error {
	post, err := s.fetchActivePost(ctx, postID)
	if err != nil {
		return err
	}
	liked, err := s.postRepo.LikeExists(ctx, userID, post.ID)
	if err != nil {
		return fmt.Errorf("check like: %w", err)
	}
	if !liked {
		return core.NewValidationError("you haven't liked this post yet.", core.CodeNotLiked)
	}
	if err := s.postRepo.DeleteLike(ctx, userID, post.ID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

func dedupeTitles(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
