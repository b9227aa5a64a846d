package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/sociograph/internal/repository"
	"github.com/d60-Lab/sociograph/pkg/logger"
)

const followerLoadPage = 500

// FollowerCache keeps a per-user follower id index in a Redis list so profile
// pages can be served with a single LRANGE instead of hitting the primary store.
// Cache-aside: misses load the full index from the follow table, writes
// invalidate the whole key.
type FollowerCache struct {
	repo  repository.FollowRepository
	cache *redis.Client
	ttl   time.Duration
}

func NewFollowerCache(repo repository.FollowRepository, cache *redis.Client, ttl time.Duration) *FollowerCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FollowerCache{repo: repo, cache: cache, ttl: ttl}
}

func (c *FollowerCache) key(userID string) string {
	return fmt.Sprintf("followers:index:%s", userID)
}

// Page returns one page of follower ids for userID, loading the index on miss.
func (c *FollowerCache) Page(ctx context.Context, userID string, page, size int) ([]string, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	start := int64((page - 1) * size)
	end := start + int64(size) - 1

	key := c.key(userID)
	exists, err := c.cache.Exists(ctx, key).Result()
	if err == nil && exists > 0 {
		return c.cache.LRange(ctx, key, start, end).Result()
	}

	ids, err := c.loadIndex(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		pipe := c.cache.Pipeline()
		pipe.Del(ctx, key)
		args := make([]interface{}, len(ids))
		for i, id := range ids {
			args[i] = id
		}
		pipe.RPush(ctx, key, args...)
		pipe.Expire(ctx, key, c.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.Warn("follower cache fill failed", zap.String("user", userID), zap.Error(err))
		}
	}

	if start >= int64(len(ids)) {
		return nil, nil
	}
	if end >= int64(len(ids)) {
		end = int64(len(ids)) - 1
	}
	return ids[start : end+1], nil
}

// Invalidate drops the index for userID; next read rebuilds it.
func (c *FollowerCache) Invalidate(ctx context.Context, userID string) {
	if err := c.cache.Del(ctx, c.key(userID)).Err(); err != nil {
		logger.Warn("follower cache invalidate failed", zap.String("user", userID), zap.Error(err))
	}
}

func (c *FollowerCache) loadIndex(ctx context.Context, userID string) ([]string, error) {
	var all []string
	offset := 0
	for {
		batch, err := c.repo.ListFollowerIDs(ctx, userID, offset, followerLoadPage)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < followerLoadPage {
			return all, nil
		}
		offset += followerLoadPage
	}
}
