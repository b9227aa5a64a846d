package model

import "time"

// User 用户主体（帐号子系统拥有，这里只关心状态位）
type User struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Username    string `gorm:"type:varchar(250);uniqueIndex;not null"`
	Nickname    string `gorm:"type:varchar(250)"`
	FirstName   string `gorm:"type:varchar(250)"`
	LastName    string `gorm:"type:varchar(250)"`
	Biography   string `gorm:"type:text"`
	// email / phone 至少其一，二选一可留空（空串），唯一性在服务层校验
	Email       string `gorm:"type:varchar(250);index"`
	PhoneNumber string `gorm:"type:varchar(11);index"`
	Password    string `gorm:"type:varchar(128)"`
	IsActive    bool   `gorm:"default:false"`
	IsPrivate   bool   `gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (User) TableName() string { return "users" }
