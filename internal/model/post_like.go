package model

import "time"

// PostLike 点赞记录，近期点赞是时间线兜底查询的输入
type PostLike struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	UserID string `gorm:"type:varchar(36);index:idx_like_user;index:idx_like_pair,unique;not null"`
	PostID string `gorm:"type:varchar(36);not null;index:idx_like_pair,unique"`
	CreatedAt time.Time `gorm:"index:idx_like_user_created"`
}

func (PostLike) TableName() string { return "post_likes" }
