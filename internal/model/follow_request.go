package model

import "time"

// FollowRequest 待确认的关注请求，仅当目标帐号为私密时产生；
// 同一有序对最多一条，且与 Follow 边互斥（由上层保证）
type FollowRequest struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FromUserID string `gorm:"type:varchar(36);index:idx_freq_pair,unique;not null"`
	ToUserID   string `gorm:"type:varchar(36);index:idx_freq_to;index:idx_freq_pair,unique;not null"`
	CreatedAt  time.Time
}

func (FollowRequest) TableName() string { return "follow_requests" }
