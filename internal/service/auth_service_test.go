package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/sociograph/internal/cache"
	"github.com/d60-Lab/sociograph/internal/core"
	"github.com/d60-Lab/sociograph/internal/repository"
)

func newAuthFixture(t *testing.T) (*gorm.DB, AuthService) {
	t.Helper()
	db := setupTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewFollowRepository(db),
		repository.NewFollowRequestRepository(db),
		cache.NewResetTokenStore(rdb, time.Minute),
		nil,
		"test-secret",
		time.Hour,
	)
	return db, svc
}

func TestSignUpAndLogin(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.Password, "password is stored hashed")
	assert.Equal(t, "alice", user.Nickname, "nickname defaults to username")

	token, logged, err := svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	subject, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	_, _, err = svc.Login(ctx, "alice", "wrong")
	requireCode(t, err, core.CodeInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "secret123")
	requireCode(t, err, core.CodeInvalidCredentials)
}

func TestSignUpRejections(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	// email 和 phone 至少要有一个
	_, err := svc.SignUp(ctx, SignUpInput{Username: "alice", Password: "secret123"})
	requireCode(t, err, core.CodeInvalidSignUp)

	_, err = svc.SignUp(ctx, SignUpInput{Username: "alice", Email: "alice@example.com", PhoneNumber: "13800000001", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, SignUpInput{Username: "alice", Email: "other@example.com", Password: "secret123"})
	requireCode(t, err, core.CodeDuplicateUsername)

	_, err = svc.SignUp(ctx, SignUpInput{Username: "bob", Email: "alice@example.com", Password: "secret123"})
	requireCode(t, err, core.CodeDuplicateEmail)

	_, err = svc.SignUp(ctx, SignUpInput{Username: "bob", PhoneNumber: "13800000001", Password: "secret123"})
	requireCode(t, err, core.CodeDuplicatePhone)
}

func TestChangeSettingsPassword(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.ChangeSettings(ctx, user.ID, SettingsInput{Password: "wrong", NewPassword: "next456"})
	requireCode(t, err, core.CodeInvalidPassword)

	res, err := svc.ChangeSettings(ctx, user.ID, SettingsInput{Password: "secret123", NewPassword: "next456"})
	require.NoError(t, err)
	assert.True(t, res.RevokeToken, "old cookie must be replaced after a password change")

	_, _, err = svc.Login(ctx, "alice", "next456")
	require.NoError(t, err)
}

func TestChangeSettingsPrivacyToggle(t *testing.T) {
	db, svc := newAuthFixture(t)
	ctx := context.Background()

	owner, err := svc.SignUp(ctx, SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	truev, falsev := true, false

	// 与当前值相同的切换被拒绝
	_, err = svc.ChangeSettings(ctx, owner.ID, SettingsInput{IsPrivate: &falsev})
	requireCode(t, err, core.CodeAlreadyTheSame)

	_, err = svc.ChangeSettings(ctx, owner.ID, SettingsInput{IsPrivate: &truev})
	require.NoError(t, err)

	// 私密期间积累两个关注请求
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	requestRepo := repository.NewFollowRequestRepository(db)
	require.NoError(t, requestRepo.Create(ctx, bob.ID, owner.ID))
	require.NoError(t, requestRepo.Create(ctx, carol.ID, owner.ID))

	// 转公开后请求全部转正
	_, err = svc.ChangeSettings(ctx, owner.ID, SettingsInput{IsPrivate: &falsev})
	require.NoError(t, err)

	followRepo := repository.NewFollowRepository(db)
	for _, u := range []string{bob.ID, carol.ID} {
		following, err := followRepo.Exists(ctx, u, owner.ID)
		require.NoError(t, err)
		assert.True(t, following)
	}
	pending, err := requestRepo.ListPendingFrom(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestForgotAndResetPassword(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	code, err := svc.ForgotPassword(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, code)

	require.NoError(t, svc.ResetPassword(ctx, code, "next456"))
	_, _, err = svc.Login(ctx, "alice", "next456")
	require.NoError(t, err)

	// 重置码一次性，复用视同过期
	err = svc.ResetPassword(ctx, code, "again789")
	requireCode(t, err, core.CodeExpiredResetCode)
}

func TestForgotPasswordWithoutEmail(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Username: "bob", PhoneNumber: "13800000001", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.ForgotPassword(ctx, "bob")
	requireCode(t, err, core.CodeInvalidCredentials)

	_, err = svc.ForgotPassword(ctx, "nobody")
	requireCode(t, err, core.CodeInvalidCredentials)
}
