package model

import "time"

// Hashtag 话题标签，标题大小写敏感，与 Post 多对多
type Hashtag struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Title     string `gorm:"type:varchar(250);uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Hashtag) TableName() string { return "hashtags" }
