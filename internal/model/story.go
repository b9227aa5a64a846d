package model

import "time"

// Story 内容类型
const (
	StoryContentImage = "IMG"
	StoryContentVideo = "VID"
)

// Story 可见性
const (
	StoryPrivacyNormal      = "NRL"
	StoryPrivacyCloseFriend = "CLS"
)

// Story 限时动态，默认 24 小时后过期；CLS 仅挚友可见
type Story struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	AuthorID    string `gorm:"type:varchar(36);index:idx_story_author;not null"`
	ContentType string `gorm:"type:varchar(3);not null"`
	Content     string `gorm:"type:text"`
	PrivacyType string `gorm:"type:varchar(3);not null;default:NRL"`
	ActiveUntil time.Time `gorm:"index:idx_story_active"`
	CreatedAt   time.Time
}

func (Story) TableName() string { return "stories" }
