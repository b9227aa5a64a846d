package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/sociograph/internal/core"
	"github.com/d60-Lab/sociograph/internal/model"
	"github.com/d60-Lab/sociograph/internal/repository"
)

// Outcome 标记变更命中的分支，边界层据此区分提示文案
type Outcome string

const (
	// OutcomeDirect 直接写边（公开帐号）
	OutcomeDirect Outcome = "direct"
	// OutcomePending 目标为私密帐号，转为待确认请求
	OutcomePending Outcome = "pending"
)

type mutationIntent int

const (
	intentFollow mutationIntent = iota + 1
	intentUnfollow
	intentAddCloseFriend
	intentRemoveCloseFriend
)

// Permit 一次性变更许可。只有对应的 Validate* 通过才会签发，
// 由匹配的变更方法消费且只能消费一次；拿不到许可就调变更属于调用方集成错误，
// 直接 panic，不走用户可见的错误通道
type Permit struct {
	intent  mutationIntent
	actorID string
	target  *model.User
	used    bool
}

func (p *Permit) consume(want mutationIntent) *model.User {
	if p == nil {
		panic("relationship: mutation called without a passed validation")
	}
	if p.used {
		panic("relationship: permit already consumed")
	}
	if p.intent != want {
		panic("relationship: permit was issued for a different mutation")
	}
	p.used = true
	return p.target
}

// TargetPrivate 目标帐号是否私密（供边界层提前选择文案）
func (p *Permit) TargetPrivate() bool { return p.target.IsPrivate }

// RelationshipService 关系链服务：先校验拿许可，再用许可变更
type RelationshipService interface {
	ValidateFollow(ctx context.Context, actorID, targetID string) (*Permit, error)
	Follow(ctx context.Context, p *Permit) (Outcome, error)

	ValidateUnfollow(ctx context.Context, actorID, targetID string) (*Permit, error)
	Unfollow(ctx context.Context, p *Permit) (Outcome, error)

	ValidateAddCloseFriend(ctx context.Context, actorID, targetID string) (*Permit, error)
	AddCloseFriend(ctx context.Context, p *Permit) error

	ValidateRemoveCloseFriend(ctx context.Context, actorID, targetID string) (*Permit, error)
	RemoveCloseFriend(ctx context.Context, p *Permit) error
}

type relationshipService struct {
	userRepo        repository.UserRepository
	followRepo      repository.FollowRepository
	requestRepo     repository.FollowRequestRepository
	closeFriendRepo repository.CloseFriendRepository
	followerCache   FollowerInvalidator
}

// FollowerInvalidator 关注变更后失效粉丝列表缓存；可为 nil
type FollowerInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

func NewRelationshipService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	requestRepo repository.FollowRequestRepository,
	closeFriendRepo repository.CloseFriendRepository,
	followerCache FollowerInvalidator,
) RelationshipService {
	return &relationshipService{
		userRepo:        userRepo,
		followRepo:      followRepo,
		requestRepo:     requestRepo,
		closeFriendRepo: closeFriendRepo,
		followerCache:   followerCache,
	}
}

// fetchTarget 公共前置：目标必须是有效用户且不等于操作者
func (s *relationshipService) fetchTarget(ctx context.Context, actorID, targetID, code string) (*model.User, error) {
	target, err := s.userRepo.ActiveTarget(ctx, targetID, actorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if code == core.CodeInvalidUser {
			return nil, core.NewValidationError("invalid user", code)
		}
		return nil, core.NewValidationError("user not found.", code)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch target user: %w", err)
	}
	return target, nil
}

func (s *relationshipService) ValidateFollow(ctx context.Context, actorID, targetID string) (*Permit, error) {
	target, err := s.fetchTarget(ctx, actorID, targetID, core.CodeUserNotFound)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.Exists(ctx, actorID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("check follow edge: %w", err)
	}
	if following {
		return nil, core.NewValidationError("user is already being followed", core.CodeDuplicateFollow)
	}
	return &Permit{intent: intentFollow, actorID: actorID, target: target}, nil
}

func (s *relationshipService) Follow(ctx context.Context, p *Permit) (Outcome, error) {
	target := p.consume(intentFollow)
	// 私密与否读的是变更时刻的目标状态（接受校验与变更之间的竞态）
	if target.IsPrivate {
		if err := s.requestRepo.Create(ctx, p.actorID, target.ID); err != nil {
			return "", fmt.Errorf("create follow request: %w", err)
		}
		return OutcomePending, nil
	}
	if err := s.followRepo.Create(ctx, p.actorID, target.ID); err != nil {
		return "", fmt.Errorf("create follow edge: %w", err)
	}
	if s.followerCache != nil {
		s.followerCache.Invalidate(ctx, target.ID)
	}
	return OutcomeDirect, nil
}

func (s *relationshipService) ValidateUnfollow(ctx context.Context, actorID, targetID string) (*Permit, error) {
	target, err := s.fetchTarget(ctx, actorID, targetID, core.CodeUserNotFound)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.Exists(ctx, actorID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("check follow edge: %w", err)
	}
	if !following {
		requested, err := s.requestRepo.Exists(ctx, actorID, target.ID)
		if err != nil {
			return nil, fmt.Errorf("check follow request: %w", err)
		}
		if !requested {
			return nil, core.NewValidationError("user is not being followed", core.CodeNotFollowing)
		}
	}
	return &Permit{intent: intentUnfollow, actorID: actorID, target: target}, nil
}

func (s *relationshipService) Unfollow(ctx context.Context, p *Permit) (Outcome, error) {
	target := p.consume(intentUnfollow)
	if target.IsPrivate {
		if err := s.requestRepo.Delete(ctx, p.actorID, target.ID); err != nil {
			return "", fmt.Errorf("delete follow request: %w", err)
		}
		return OutcomePending, nil
	}
	if err := s.followRepo.Delete(ctx, p.actorID, target.ID); err != nil {
		return "", fmt.Errorf("delete follow edge: %w", err)
	}
	if s.followerCache != nil {
		s.followerCache.Invalidate(ctx, target.ID)
	}
	return OutcomeDirect, nil
}

// validateCloseFriend 挚友公共前置：目标有效、非自身，且目标当前关注着操作者
// （挚友只能从自己的粉丝里选）
func (s *relationshipService) validateCloseFriend(ctx context.Context, actorID, targetID string) (*model.User, error) {
	target, err := s.fetchTarget(ctx, actorID, targetID, core.CodeInvalidUser)
	if err != nil {
		return nil, err
	}
	followsActor, err := s.followRepo.Exists(ctx, target.ID, actorID)
	if err != nil {
		return nil, fmt.Errorf("check follower edge: %w", err)
	}
	if !followsActor {
		return nil, core.NewValidationError("user is not following you at the moment.", core.CodeUserNotFollowing)
	}
	return target, nil
}

func (s *relationshipService) ValidateAddCloseFriend(ctx context.Context, actorID, targetID string) (*Permit, error) {
	target, err := s.validateCloseFriend(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	member, err := s.closeFriendRepo.Exists(ctx, actorID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("check close friend edge: %w", err)
	}
	if member {
		return nil, core.NewValidationError("user is already in your close friends list.", core.CodeDuplicateCloseFriend)
	}
	return &Permit{intent: intentAddCloseFriend, actorID: actorID, target: target}, nil
}

func (s *relationshipService) AddCloseFriend(ctx context.Context, p *Permit) error {
	target := p.consume(intentAddCloseFriend)
	if err := s.closeFriendRepo.Create(ctx, p.actorID, target.ID); err != nil {
		return fmt.Errorf("create close friend edge: %w", err)
	}
	return nil
}

func (s *relationshipService) ValidateRemoveCloseFriend(ctx context.Context, actorID, targetID string) (*Permit, error) {
	target, err := s.validateCloseFriend(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	member, err := s.closeFriendRepo.Exists(ctx, actorID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("check close friend edge: %w", err)
	}
	if !member {
		return nil, core.NewValidationError("user is not in your close friends list..", core.CodeNotCloseFriend)
	}
	return &Permit{intent: intentRemoveCloseFriend, actorID: actorID, target: target}, nil
}

func (s *relationshipService) RemoveCloseFriend(ctx context.Context, p *Permit) error {
	target := p.consume(intentRemoveCloseFriend)
	if err := s.closeFriendRepo.Delete(ctx, p.actorID, target.ID); err != nil {
		return fmt.Errorf("delete close friend edge: %w", err)
	}
	return nil
}
