package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound 令牌不存在或已过期（过期由 Redis TTL 负责）
var ErrTokenNotFound = errors.New("reset token not found or expired")

// ResetTokenStore 忘记密码令牌的外部 KV 存储，带显式 TTL，
// 不在进程内保存任何状态
type ResetTokenStore struct {
	cache *redis.Client
	ttl   time.Duration
}

func NewResetTokenStore(cache *redis.Client, ttl time.Duration) *ResetTokenStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ResetTokenStore{cache: cache, ttl: ttl}
}

func (s *ResetTokenStore) key(code string) string {
	return fmt.Sprintf("reset:%s", code)
}

// Issue 为用户签发一次性重置码
func (s *ResetTokenStore) Issue(ctx context.Context, username string) (string, error) {
	code := uuid.New().String()
	if err := s.cache.Set(ctx, s.key(code), username, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return code, nil
}

// Consume 取出并销毁重置码，返回其绑定的用户名
func (s *ResetTokenStore) Consume(ctx context.Context, code string) (string, error) {
	key := s.key(code)
	username, err := s.cache.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load reset token: %w", err)
	}
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		return "", fmt.Errorf("delete reset token: %w", err)
	}
	return username, nil
}
