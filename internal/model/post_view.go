package model

import "time"

// PostView 浏览历史（user 已看过 post），时间线据此去重
type PostView struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	UserID string `gorm:"type:varchar(36);index:idx_view_user;uniqueIndex:ux_view_user_post"`
	PostID string `gorm:"type:varchar(36);index:idx_view_post;uniqueIndex:ux_view_user_post"`
	// 复合唯一键，避免重复 (user, post)
	// ux_view_user_post = (user_id, post_id)
	CreatedAt time.Time
}

func (PostView) TableName() string { return "post_views" }
