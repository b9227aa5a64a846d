package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/sociograph/internal/model"
)

type PostRepository interface {
	GetActive(ctx context.Context, id string) (*model.Post, error)
	// RecentByAuthorsUnseen 时间窗内指定作者的帖子，反连接浏览历史去重（主查询）
	RecentByAuthorsUnseen(ctx context.Context, viewerID string, authorIDs []string, since, until time.Time, limit int) ([]*model.Post, error)
	// ByHashtagTitlesUnseen 命中任一标签的帖子（兜底查询）。
	// 浏览历史排除仅在作者非私密时生效：exclude(viewed AND author public)，
	// 私密作者的帖子不按浏览历史排除（沿用既有行为，意图存疑）
	ByHashtagTitlesUnseen(ctx context.Context, viewerID string, titles []string, limit int) ([]*model.Post, error)
	// RecentLikedPosts 近期点赞过的帖子，按点赞时间倒序
	RecentLikedPosts(ctx context.Context, userID string, limit int) ([]*model.Post, error)
	// HashtagTitles 某帖子的去重标签标题，排除指定集合
	HashtagTitles(ctx context.Context, postID string, excluded []string) ([]string, error)
	// CreateViews 批量落浏览历史；(user, post) 撞唯一键时静默跳过
	CreateViews(ctx context.Context, userID string, postIDs []string) error
	HasViewed(ctx context.Context, userID, postID string) (bool, error)

	CreateLike(ctx context.Context, userID, postID string) error
	DeleteLike(ctx context.Context, userID, postID string) error
	LikeExists(ctx context.Context, userID, postID string) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) GetActive(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ? AND is_deleted = ?", id, true, false).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) RecentByAuthorsUnseen(ctx context.Context, viewerID string, authorIDs []string, since, until time.Time, limit int) ([]*model.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	viewed := r.db.Model(&model.PostView{}).
		Select("post_id").
		Where("user_id = ?", viewerID)

	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Where("is_active = ? AND is_deleted = ?", true, false).
		Where("created_at BETWEEN ? AND ?", since, until).
		Where("id NOT IN (?)", viewed).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ByHashtagTitlesUnseen(ctx context.Context, viewerID string, titles []string, limit int) ([]*model.Post, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	viewed := r.db.Model(&model.PostView{}).
		Select("1").
		Where("post_views.post_id = posts.id AND post_views.user_id = ?", viewerID)

	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Distinct("posts.*").
		Joins("JOIN post_hashtags ph ON ph.post_id = posts.id").
		Joins("JOIN hashtags h ON h.id = ph.hashtag_id").
		Joins("JOIN users u ON u.id = posts.author_id").
		Where("h.title IN ?", titles).
		Where("posts.is_active = ? AND posts.is_deleted = ?", true, false).
		Where("NOT (EXISTS (?) AND u.is_private = ?)", viewed, false).
		Order("posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) RecentLikedPosts(ctx context.Context, userID string, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Joins("JOIN post_likes pl ON pl.post_id = posts.id").
		Where("pl.user_id = ?", userID).
		Where("posts.is_active = ? AND posts.is_deleted = ?", true, false).
		Order("pl.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) HashtagTitles(ctx context.Context, postID string, excluded []string) ([]string, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Hashtag{}).
		Joins("JOIN post_hashtags ph ON ph.hashtag_id = hashtags.id").
		Where("ph.post_id = ?", postID)
	if len(excluded) > 0 {
		q = q.Where("hashtags.title NOT IN ?", excluded)
	}
	var titles []string
	err := q.Distinct().Pluck("hashtags.title", &titles).Error
	return titles, err
}

func (r *postRepository) CreateViews(ctx context.Context, userID string, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	now := time.Now()
	records := make([]model.PostView, 0, len(postIDs))
	for _, pid := range postIDs {
		records = append(records, model.PostView{ID: uuid.New().String(), UserID: userID, PostID: pid, CreatedAt: now})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&records).Error
}

func (r *postRepository) HasViewed(ctx context.Context, userID, postID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.PostView{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *postRepository) CreateLike(ctx context.Context, userID, postID string) error {
	like := &model.PostLike{ID: uuid.New().String(), UserID: userID, PostID: postID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

func (r *postRepository) DeleteLike(ctx context.Context, userID, postID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.PostLike{}).Error
}

func (r *postRepository) LikeExists(ctx context.Context, userID, postID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&cnt).Error
	return cnt > 0, err
}
