package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/sociograph/internal/core"
	"github.com/d60-Lab/sociograph/internal/repository"
)

func newRelationshipFixture(t *testing.T) (*gorm.DB, RelationshipService) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewRelationshipService(
		repository.NewUserRepository(db),
		repository.NewFollowRepository(db),
		repository.NewFollowRequestRepository(db),
		repository.NewCloseFriendRepository(db),
		nil,
	)
	return db, svc
}

func requireCode(t *testing.T, err error, code string) *core.ValidationError {
	t.Helper()
	require.Error(t, err)
	ve, ok := core.AsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	require.Equal(t, code, ve.Code)
	return ve
}

func TestFollowPublicTarget(t *testing.T) {
	db, svc := newRelationshipFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	permit, err := svc.ValidateFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, permit.TargetPrivate())

	outcome, err := svc.Follow(ctx, permit)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDirect, outcome)

	exists, err := repository.NewFollowRepository(db).Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFollowPrivateTargetBecomesRequest(t *testing.T) {
	db, svc := newRelationshipFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob", private())

	permit, err := svc.ValidateFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, permit.TargetPrivate())

	outcome, err := svc.Follow(ctx, permit)
	require.NoError(t, err)
	assert.Equal(t, OutcomePending, outcome)

	following, err := repository.NewFollowRepository(db).Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following, "no edge until the request is accepted")

	requested, err := repository.NewFollowRequestRepository(db).Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, requested)
}

func TestValidateFollowRejections(t *testing.T) {
	db, svc := newRelationshipFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	ghost := seedUser(t, db, "ghost", inactive())

	_, err := svc.ValidateFollow(ctx, alice.ID, "no-such-user")
	ve := requireCode(t, err, core.CodeUserNotFound)
	assert.Equal(t, "user not found.", ve.Message)

	// 自己不能关注自己
	_, err = svc.ValidateFollow(ctx, alice.ID, alice.ID)
	requireCode(t, err, core.CodeUserNotFound)

	// 停用帐号视同不存在
	_, err = svc.ValidateFollow(ctx, alice.ID, ghost.ID)
	requireCode(t, err, core.CodeUserNotFound)
}

func TestFollowDuplicate(t *testing.T) {
	db, svc := newRelationshipFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	permit, err := svc.ValidateFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, permit)
	require.NoError(t, err)

	_, err = svc.ValidateFollow(ctx, alice.ID, bob.ID)
	requireCode(t, err, core.CodeDuplicateFollow)

	// 重复校验失败后边仍然只有一条
	cnt, err := repository.NewFollowRepository(db).CountFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}

func TestUnfollow(t *testing.T) {
	db, svc := newRelationshipFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	permit, err := svc.ValidateFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, permit)
	require.NoError(t, err)

	permit, err = svc.ValidateUnfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	outcome, err := svc.Unfollow(ctx, permit)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDirect, outcome)

	exists, err := repository.NewFollowRepository(db).Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnfollowWithdrawsPendingRequest(t *testing.T) {
	db, svc := newRelationshipFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob", private())

	permit, err := svc.ValidateFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, permit)
	require.NoError(t, err)

	// 请求还没被接受就取关：撤回请求而不是删边
	permit, err = svc.ValidateUnfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	outcome, err := svc.Unfollow(ctx, permit)
	require.NoError(t, err)
	assert.Equal(t, OutcomePending, outcome)

	requested, err := repository.NewFollowRequestRepository(db).Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, requested)
}

func TestUnfollowNotFollowing(t *testing.T) {
	db, svc := newRelationshipFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.ValidateUnfollow(ctx, alice.ID, bob.ID)
	requireCode(t, err, core.CodeNotFollowing)
}

func TestCloseFriendLifecycle(t *testing.T) {
	db, svc := newRelationshipFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	// bob 还没关注 alice，不能加挚友
	_, err := svc.ValidateAddCloseFriend(ctx, alice.ID, bob.ID)
	ve := requireCode(t, err, core.CodeUserNotFollowing)
	assert.Equal(t, "user is not following you at the moment.", ve.Message)

	// 挚友来自自己的粉丝：bob 关注 alice 后才行
	permit, err := svc.ValidateFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, permit)
	require.NoError(t, err)

	permit, err = svc.ValidateAddCloseFriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.AddCloseFriend(ctx, permit))

	_, err = svc.ValidateAddCloseFriend(ctx, alice.ID, bob.ID)
	requireCode(t, err, core.CodeDuplicateCloseFriend)

	permit, err = svc.ValidateRemoveCloseFriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveCloseFriend(ctx, permit))

	_, err = svc.ValidateRemoveCloseFriend(ctx, alice.ID, bob.ID)
	requireCode(t, err, core.CodeNotCloseFriend)
}

func TestCloseFriendInvalidTarget(t *testing.T) {
	db, svc := newRelationshipFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	_, err := svc.ValidateAddCloseFriend(ctx, alice.ID, "no-such-user")
	ve := requireCode(t, err, core.CodeInvalidUser)
	assert.Equal(t, "invalid user", ve.Message)

	_, err = svc.ValidateRemoveCloseFriend(ctx, alice.ID, alice.ID)
	requireCode(t, err, core.CodeInvalidUser)
}

func TestPermitMisusePanics(t *testing.T) {
	db, svc := newRelationshipFixture(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	// 没有许可直接变更属于集成错误
	assert.Panics(t, func() { _, _ = svc.Follow(ctx, nil) })

	permit, err := svc.ValidateFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// 许可发给谁就只能给谁用
	assert.Panics(t, func() { _, _ = svc.Unfollow(ctx, permit) })

	_, err = svc.Follow(ctx, permit)
	require.NoError(t, err)

	// 用过一次就作废
	assert.Panics(t, func() { _, _ = svc.Follow(ctx, permit) })
}
