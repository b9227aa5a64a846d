package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/sociograph/internal/cache"
	"github.com/d60-Lab/sociograph/internal/core"
	"github.com/d60-Lab/sociograph/internal/model"
	"github.com/d60-Lab/sociograph/internal/repository"
)

type SignUpInput struct {
	Username    string
	FirstName   string
	LastName    string
	Nickname    string
	Email       string
	PhoneNumber string
	Password    string
}

type SettingsInput struct {
	Password    string
	NewPassword string
	Username    string
	IsPrivate   *bool
}

type SettingsResult struct {
	// RevokeToken 改密后旧 token 作废，边界层需要重新下发 cookie
	RevokeToken bool
}

// AuthService 帐号：注册、登录、设置变更与忘记密码
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	ParseToken(token string) (string, error)
	ChangeSettings(ctx context.Context, userID string, in SettingsInput) (*SettingsResult, error)
	// ForgotPassword 签发一次性重置码（寄信在边界层之外）
	ForgotPassword(ctx context.Context, username string) (string, error)
	ResetPassword(ctx context.Context, code, newPassword string) error
	IssueToken(userID string) (string, error)
}

type authService struct {
	userRepo      repository.UserRepository
	followRepo    repository.FollowRepository
	requestRepo   repository.FollowRequestRepository
	resetTokens   *cache.ResetTokenStore
	followerCache FollowerInvalidator
	jwtSecret     []byte
	tokenTTL      time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	requestRepo repository.FollowRequestRepository,
	resetTokens *cache.ResetTokenStore,
	followerCache FollowerInvalidator,
	jwtSecret string,
	tokenTTL time.Duration,
) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		followRepo:    followRepo,
		requestRepo:   requestRepo,
		resetTokens:   resetTokens,
		followerCache: followerCache,
		jwtSecret:     []byte(jwtSecret),
		tokenTTL:      tokenTTL,
	}
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	// email 和 phone 至少要有一个
	if in.Email == "" && in.PhoneNumber == "" {
		return nil, core.NewValidationError("either email or phone number must be provided.", core.CodeInvalidSignUp)
	}
	if taken, err := s.userRepo.UsernameExists(ctx, in.Username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, core.NewValidationError("username already exists.", core.CodeDuplicateUsername)
	}
	if in.Email != "" {
		if taken, err := s.userRepo.EmailExists(ctx, in.Email); err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		} else if taken {
			return nil, core.NewValidationError("email already exists.", core.CodeDuplicateEmail)
		}
	}
	if in.PhoneNumber != "" {
		if taken, err := s.userRepo.PhoneExists(ctx, in.PhoneNumber); err != nil {
			return nil, fmt.Errorf("check phone: %w", err)
		} else if taken {
			return nil, core.NewValidationError("phone number already exists.", core.CodeDuplicatePhone)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	nickname := in.Nickname
	if nickname == "" {
		nickname = in.Username
	}
	user := &model.User{
		Username:    in.Username,
		Nickname:    nickname,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    string(hash),
		IsActive:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, core.NewValidationError("login failed.", core.CodeInvalidCredentials)
	}
	if err != nil {
		return "", nil, fmt.Errorf("fetch user: %w", err)
	}
	if !user.IsActive {
		return "", nil, core.NewValidationError("login failed.", core.CodeInvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, core.NewValidationError("login failed.", core.CodeInvalidCredentials)
	}
	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *authService) ParseToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

func (s *authService) ChangeSettings(ctx context.Context, userID string, in SettingsInput) (*SettingsResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	res := &SettingsResult{}
	fields := map[string]any{}

	if in.Password != "" {
		res.RevokeToken = true
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
			return nil, core.NewValidationError("password is invalid.", core.CodeInvalidPassword)
		}
		if in.NewPassword != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			fields["password"] = string(hash)
		}
	}

	if in.Username != "" && in.Username != user.Username {
		taken, err := s.userRepo.UsernameExists(ctx, in.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, core.NewValidationError("username already exists.", core.CodeDuplicateUsername)
		}
		fields["username"] = in.Username
	}

	acceptRequests := false
	if in.IsPrivate != nil {
		if user.IsPrivate == *in.IsPrivate {
			return nil, core.NewValidationError(
				fmt.Sprintf("your account privacy is already set to %v.", *in.IsPrivate),
				core.CodeAlreadyTheSame,
			)
		}
		fields["is_private"] = *in.IsPrivate
		// 转公开时，之前排队的关注请求全部转正
		acceptRequests = !*in.IsPrivate
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	if acceptRequests {
		pending, err := s.requestRepo.ListPendingFrom(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list follow requests: %w", err)
		}
		for _, fromID := range pending {
			if err := s.followRepo.Create(ctx, fromID, userID); err != nil {
				return nil, fmt.Errorf("accept follow request: %w", err)
			}
		}
		if err := s.requestRepo.DeleteAllTo(ctx, userID); err != nil {
			return nil, fmt.Errorf("clear follow requests: %w", err)
		}
		if s.followerCache != nil && len(pending) > 0 {
			s.followerCache.Invalidate(ctx, userID)
		}
	}

	return res, nil
}

func (s *authService) ForgotPassword(ctx context.Context, username string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", core.NewValidationError("invalid request", core.CodeInvalidCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if user.Email == "" {
		return "", core.NewValidationError(
			"this user does not have an active email address for password recovery.",
			core.CodeInvalidCredentials,
		)
	}
	code, err := s.resetTokens.Issue(ctx, user.Username)
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *authService) ResetPassword(ctx context.Context, code, newPassword string) error {
	username, err := s.resetTokens.Consume(ctx, code)
	if errors.Is(err, cache.ErrTokenNotFound) {
		return core.NewValidationError("forgot password link has been expired.", core.CodeExpiredResetCode)
	}
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{"password": string(hash)}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
