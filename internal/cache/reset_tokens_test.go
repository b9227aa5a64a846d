package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupResetTokens(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *ResetTokenStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewResetTokenStore(rdb, ttl)
}

func TestResetTokenIssueAndConsume(t *testing.T) {
	_, store := setupResetTokens(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	username, err := store.Consume(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	// single use
	_, err = store.Consume(ctx, code)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResetTokenExpires(t *testing.T) {
	mr, store := setupResetTokens(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "alice")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Consume(ctx, code)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResetTokenUnknownCode(t *testing.T) {
	_, store := setupResetTokens(t, time.Minute)
	_, err := store.Consume(context.Background(), "not-a-code")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
