package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/sociograph/internal/core"
	"github.com/d60-Lab/sociograph/internal/model"
	"github.com/d60-Lab/sociograph/internal/repository"
)

func newStoryFixture(t *testing.T) (*gorm.DB, *storyService) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewStoryService(repository.NewStoryRepository(db), repository.NewFollowRepository(db)).(*storyService)
	svc.now = func() time.Time { return feedNow }
	return db, svc
}

func TestPublishStory(t *testing.T) {
	db, svc := newStoryFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	story, err := svc.Publish(ctx, alice.ID, model.StoryContentImage, "img.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, model.StoryPrivacyNormal, story.PrivacyType, "privacy defaults to normal")
	assert.Equal(t, feedNow.Add(24*time.Hour), story.ActiveUntil)

	_, err = svc.Publish(ctx, alice.ID, "GIF", "x", "")
	requireCode(t, err, core.CodeInvalidStory)
	_, err = svc.Publish(ctx, alice.ID, model.StoryContentVideo, "x", "FRIENDS")
	requireCode(t, err, core.CodeInvalidStory)
}

func TestListVisibleStories(t *testing.T) {
	db, svc := newStoryFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	followRepo := repository.NewFollowRepository(db)
	require.NoError(t, followRepo.Create(ctx, alice.ID, bob.ID))

	normal, err := svc.Publish(ctx, bob.ID, model.StoryContentImage, "a.jpg", model.StoryPrivacyNormal)
	require.NoError(t, err)
	closeOnly, err := svc.Publish(ctx, bob.ID, model.StoryContentImage, "b.jpg", model.StoryPrivacyCloseFriend)
	require.NoError(t, err)
	// 没关注的作者不可见
	_, err = svc.Publish(ctx, carol.ID, model.StoryContentImage, "c.jpg", model.StoryPrivacyNormal)
	require.NoError(t, err)
	// 已过期的不可见
	expired := &model.Story{AuthorID: bob.ID, ContentType: model.StoryContentImage, PrivacyType: model.StoryPrivacyNormal, ActiveUntil: feedNow.Add(-time.Minute)}
	require.NoError(t, repository.NewStoryRepository(db).Create(ctx, expired))

	stories, err := svc.ListVisible(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, normal.ID, stories[0].ID)

	// 进了 bob 的挚友名单后 CLS 动态才可见
	require.NoError(t, repository.NewCloseFriendRepository(db).Create(ctx, bob.ID, alice.ID))
	stories, err = svc.ListVisible(ctx, alice.ID)
	require.NoError(t, err)
	ids := make(map[string]bool, len(stories))
	for _, s := range stories {
		ids[s.ID] = true
	}
	assert.True(t, ids[normal.ID])
	assert.True(t, ids[closeOnly.ID])
	assert.Len(t, stories, 2)
}
