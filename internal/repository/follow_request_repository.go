package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/sociograph/internal/model"
)

type FollowRequestRepository interface {
	Create(ctx context.Context, fromUserID, toUserID string) error
	Delete(ctx context.Context, fromUserID, toUserID string) error
	Exists(ctx context.Context, fromUserID, toUserID string) (bool, error)
	// ListPendingFrom 返回向 toUserID 发起请求的用户 id，按请求时间升序
	ListPendingFrom(ctx context.Context, toUserID string) ([]string, error)
	DeleteAllTo(ctx context.Context, toUserID string) error
}

type followRequestRepository struct {
	db *gorm.DB
}

func NewFollowRequestRepository(db *gorm.DB) FollowRequestRepository {
	return &followRequestRepository{db: db}
}

func (r *followRequestRepository) Create(ctx context.Context, fromUserID, toUserID string) error {
	req := &model.FollowRequest{ID: uuid.New().String(), FromUserID: fromUserID, ToUserID: toUserID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(req).Error
}

func (r *followRequestRepository) Delete(ctx context.Context, fromUserID, toUserID string) error {
	return r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Delete(&model.FollowRequest{}).Error
}

func (r *followRequestRepository) Exists(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.FollowRequest{}).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRequestRepository) ListPendingFrom(ctx context.Context, toUserID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.FollowRequest{}).
		Where("to_user_id = ?", toUserID).
		Order("created_at ASC").
		Pluck("from_user_id", &ids).Error
	return ids, err
}

func (r *followRequestRepository) DeleteAllTo(ctx context.Context, toUserID string) error {
	return r.db.WithContext(ctx).
		Where("to_user_id = ?", toUserID).
		Delete(&model.FollowRequest{}).Error
}
