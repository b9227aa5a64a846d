package model

import "time"

// CloseFriend 挚友关系（owner 把自己的粉丝 friend 设为挚友）。
// 建立时要求 friend 关注 owner，之后不再复查（接受陈旧）
type CloseFriend struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	OwnerID   string `gorm:"type:varchar(36);index:idx_cf_owner;index:idx_cf_pair,unique;not null"`
	FriendID  string `gorm:"type:varchar(36);not null;index:idx_cf_pair,unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CloseFriend) TableName() string { return "close_friends" }
