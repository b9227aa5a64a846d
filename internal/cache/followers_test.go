package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/sociograph/internal/model"
	"github.com/d60-Lab/sociograph/internal/repository"
)

func setupFollowerCache(t *testing.T) (*gorm.DB, *miniredis.Miniredis, *FollowerCache) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Follow{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return db, mr, NewFollowerCache(repository.NewFollowRepository(db), rdb, time.Minute)
}

func seedFollowers(t *testing.T, db *gorm.DB, followeeID string, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("u%04d", i)
		f := &model.Follow{ID: fmt.Sprintf("f%04d", i), FollowerID: id, FolloweeID: followeeID, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, db.Create(f).Error)
		ids = append(ids, id)
	}
	return ids
}

func TestFollowerCachePage(t *testing.T) {
	db, mr, fc := setupFollowerCache(t)
	ctx := context.Background()
	ids := seedFollowers(t, db, "owner", 25)

	page, err := fc.Page(ctx, "owner", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, ids[:10], page)

	// the whole index lands in redis
	assert.True(t, mr.Exists("followers:index:owner"))

	page, err = fc.Page(ctx, "owner", 3, 10)
	require.NoError(t, err)
	assert.Equal(t, ids[20:], page)

	// out of range pages come back empty
	page, err = fc.Page(ctx, "owner", 4, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestFollowerCacheServesFromRedis(t *testing.T) {
	db, _, fc := setupFollowerCache(t)
	ctx := context.Background()
	ids := seedFollowers(t, db, "owner", 5)

	_, err := fc.Page(ctx, "owner", 1, 10)
	require.NoError(t, err)

	// wipe the table; a second read must be served from redis alone
	require.NoError(t, db.Where("followee_id = ?", "owner").Delete(&model.Follow{}).Error)
	page, err := fc.Page(ctx, "owner", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, ids, page)
}

func TestFollowerCacheInvalidate(t *testing.T) {
	db, mr, fc := setupFollowerCache(t)
	ctx := context.Background()
	seedFollowers(t, db, "owner", 3)

	_, err := fc.Page(ctx, "owner", 1, 10)
	require.NoError(t, err)
	require.True(t, mr.Exists("followers:index:owner"))

	fc.Invalidate(ctx, "owner")
	assert.False(t, mr.Exists("followers:index:owner"))

	// after invalidation the next read rebuilds and sees the new follower
	f := &model.Follow{ID: "f-new", FollowerID: "newcomer", FolloweeID: "owner", CreatedAt: time.Now()}
	require.NoError(t, db.Create(f).Error)
	page, err := fc.Page(ctx, "owner", 1, 10)
	require.NoError(t, err)
	assert.Contains(t, page, "newcomer")
}
