package model

import "time"

// Post 内容主体
type Post struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string `gorm:"type:varchar(36);index:idx_post_author;not null"`
	Caption   string `gorm:"type:text"`
	IsActive  bool   `gorm:"default:true"`
	IsDeleted bool   `gorm:"default:false"`
	CreatedAt time.Time `gorm:"index:idx_post_created"`
	UpdatedAt time.Time

	Hashtags []*Hashtag `gorm:"many2many:post_hashtags;"`
}

func (Post) TableName() string { return "posts" }
