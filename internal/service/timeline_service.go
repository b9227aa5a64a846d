package service

import (
	"context"
	"fmt"
	"time"

	"github.com/d60-Lab/sociograph/internal/model"
	"github.com/d60-Lab/sociograph/internal/repository"
)

const (
	// feedTargetSize 时间线目标条数
	feedTargetSize = 5
	// feedWindow 主查询只看最近两天的帖子
	feedWindow = 48 * time.Hour
	// tagBatchSize 单轮兜底查询最多积累的标签数
	tagBatchSize = 5
	// recentLikesLimit 兜底遍历的近期点赞队列长度
	recentLikesLimit = 20
)

// TimelineService 时间线装配。主来源：关注对象近两天未看过的帖子；
// 不足 5 条时用近期点赞的标签做兜底补齐。尽力而为，结果可以短于目标，
// 永远不向调用方抛业务错误（返回的 error 只代表存储故障）
type TimelineService interface {
	Assemble(ctx context.Context, userID string) ([]*model.Post, error)
}

type timelineService struct {
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
	now        func() time.Time
}

func NewTimelineService(followRepo repository.FollowRepository, postRepo repository.PostRepository) TimelineService {
	return &timelineService{followRepo: followRepo, postRepo: postRepo, now: time.Now}
}

func (s *timelineService) Assemble(ctx context.Context, userID string) ([]*model.Post, error) {
	// 关注对象按关注时间升序（老关系优先进主查询）
	followees, err := s.followRepo.ListFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list followees: %w", err)
	}

	now := s.now()
	primary, err := s.postRepo.RecentByAuthorsUnseen(ctx, userID, followees, now.Add(-feedWindow), now, feedTargetSize)
	if err != nil {
		return nil, fmt.Errorf("fetch primary posts: %w", err)
	}
	// 先落浏览历史：即使后面走兜底，这批也不会在下次重复出现
	if err := s.postRepo.CreateViews(ctx, userID, postIDs(primary)); err != nil {
		return nil, fmt.Errorf("record primary views: %w", err)
	}
	if len(primary) >= feedTargetSize {
		return primary, nil
	}

	fallback, err := s.relatedPosts(ctx, userID, feedTargetSize-len(primary))
	if err != nil {
		return nil, fmt.Errorf("fetch related posts: %w", err)
	}
	if err := s.postRepo.CreateViews(ctx, userID, postIDs(fallback)); err != nil {
		return nil, fmt.Errorf("record fallback views: %w", err)
	}

	return mergePosts(primary, fallback), nil
}

// relatedPosts 标签兜底：遍历近期点赞的帖子，攒到 5 个没用过的标签就发一次查询。
// 用过的标签冻结进 duplicateTags，后面轮次不再用同一个标签放宽查询。
// 每轮结束后只有累计条数落在 (0, 5) 区间内才继续下一轮——这意味着某些点赞顺序下
// 第一轮查空就直接结束，即使队列深处还有可命中的帖子。疑似上游历史行为而非本意，
// 这里原样保留，不要顺手“修好”它
func (s *timelineService) relatedPosts(ctx context.Context, userID string, max int) ([]*model.Post, error) {
	queue, err := s.postRepo.RecentLikedPosts(ctx, userID, recentLikesLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent liked posts: %w", err)
	}

	duplicateTags := make(map[string]struct{})
	seen := make(map[string]struct{})
	var results []*model.Post

	for len(queue) > 0 {
		tagSet := make(map[string]struct{})
		for len(queue) > 0 {
			liked := queue[0]
			queue = queue[1:]

			titles, err := s.postRepo.HashtagTitles(ctx, liked.ID, setToSlice(duplicateTags))
			if err != nil {
				return nil, fmt.Errorf("list hashtag titles: %w", err)
			}
			if len(titles) == 0 {
				continue
			}
			for _, t := range titles {
				tagSet[t] = struct{}{}
			}
			if len(tagSet) >= tagBatchSize {
				for t := range tagSet {
					duplicateTags[t] = struct{}{}
				}
				break
			}
		}

		batch, err := s.postRepo.ByHashtagTitlesUnseen(ctx, userID, setToSlice(tagSet), max)
		if err != nil {
			return nil, fmt.Errorf("fetch posts by hashtags: %w", err)
		}
		for _, p := range batch {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			if len(results) >= max {
				break
			}
			seen[p.ID] = struct{}{}
			results = append(results, p)
		}

		if !(len(results) > 0 && len(results) < feedTargetSize) {
			break
		}
	}
	return results, nil
}

func mergePosts(primary, fallback []*model.Post) []*model.Post {
	out := make([]*model.Post, 0, len(primary)+len(fallback))
	ids := make(map[string]struct{}, len(primary))
	for _, p := range primary {
		ids[p.ID] = struct{}{}
		out = append(out, p)
	}
	for _, p := range fallback {
		if _, ok := ids[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

func postIDs(posts []*model.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func setToSlice(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	return out
}
