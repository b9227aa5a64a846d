package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/sociograph/internal/model"
)

type CloseFriendRepository interface {
	Create(ctx context.Context, ownerID, friendID string) error
	Delete(ctx context.Context, ownerID, friendID string) error
	Exists(ctx context.Context, ownerID, friendID string) (bool, error)
	ListFriendIDs(ctx context.Context, ownerID string, offset, limit int) ([]string, error)
}

type closeFriendRepository struct{ db *gorm.DB }

func NewCloseFriendRepository(db *gorm.DB) CloseFriendRepository {
	return &closeFriendRepository{db: db}
}

func (r *closeFriendRepository) Create(ctx context.Context, ownerID, friendID string) error {
	cf := &model.CloseFriend{ID: uuid.New().String(), OwnerID: ownerID, FriendID: friendID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(cf).Error
}

func (r *closeFriendRepository) Delete(ctx context.Context, ownerID, friendID string) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND friend_id = ?", ownerID, friendID).
		Delete(&model.CloseFriend{}).Error
}

func (r *closeFriendRepository) Exists(ctx context.Context, ownerID, friendID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.CloseFriend{}).
		Where("owner_id = ? AND friend_id = ?", ownerID, friendID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *closeFriendRepository) ListFriendIDs(ctx context.Context, ownerID string, offset, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.CloseFriend{}).
		Where("owner_id = ?", ownerID).
		Offset(offset).Limit(limit).
		Pluck("friend_id", &ids).Error
	return ids, err
}
