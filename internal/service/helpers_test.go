package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/sociograph/internal/model"
	"github.com/d60-Lab/sociograph/pkg/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type userOpt func(*model.User)

func private() userOpt  { return func(u *model.User) { u.IsPrivate = true } }
func inactive() userOpt { return func(u *model.User) { u.IsActive = false } }

func seedUser(t *testing.T, db *gorm.DB, username string, opts ...userOpt) *model.User {
	t.Helper()
	u := &model.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    username + "@example.com",
		Password: "p",
		IsActive: true,
	}
	for _, opt := range opts {
		opt(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func seedPost(t *testing.T, db *gorm.DB, authorID, caption string, createdAt time.Time, tags ...string) *model.Post {
	t.Helper()
	p := &model.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Caption:   caption,
		IsActive:  true,
		CreatedAt: createdAt,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	for _, title := range tags {
		var h model.Hashtag
		err := db.Where("title = ?", title).
			Attrs(model.Hashtag{ID: uuid.New().String(), Title: title}).
			FirstOrCreate(&h).Error
		if err != nil {
			t.Fatalf("seed hashtag %s: %v", title, err)
		}
		if err := db.Model(p).Association("Hashtags").Append(&h); err != nil {
			t.Fatalf("link hashtag %s: %v", title, err)
		}
	}
	return p
}
