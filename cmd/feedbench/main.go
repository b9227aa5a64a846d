package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/sociograph/config"
	"github.com/d60-Lab/sociograph/internal/model"
	"github.com/d60-Lab/sociograph/internal/repository"
	"github.com/d60-Lab/sociograph/internal/service"
	"github.com/d60-Lab/sociograph/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 { return 0 }
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 { k = 0 }
	if k >= len(xs) { k = len(xs)-1 }
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	// params
	USERS := 200   // total users
	FOLLOWS := 30  // follow edges per user
	POSTS := 2000  // total posts
	LIKES := 10    // likes per user (feeds the hashtag fallback)
	RUNS := 500    // feed assemblies to time
	if s := os.Getenv("USERS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { USERS = v } }
	if s := os.Getenv("FOLLOWS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { FOLLOWS = v } }
	if s := os.Getenv("POSTS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { POSTS = v } }
	if s := os.Getenv("LIKES"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { LIKES = v } }
	if s := os.Getenv("RUNS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { RUNS = v } }

	// clean tables for a reproducible run (ok for local bench)
	_ = db.Exec("TRUNCATE TABLE post_views, post_likes, post_hashtags, hashtags, posts, close_friends, follow_requests, follows, users RESTART IDENTITY CASCADE").Error

	ctx := context.Background()
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	postSvc := service.NewPostService(db, postRepo)
	timeline := service.NewTimelineService(followRepo, postRepo)

	// seed users
	users := make([]model.User, USERS)
	for i := range users {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", Password: "p", IsActive: true, IsPrivate: i%7 == 0}
	}
	_ = db.CreateInBatches(&users, 1000).Error

	// seed follow edges
	for i := range users {
		for j := 0; j < FOLLOWS; j++ {
			to := users[rand.Intn(len(users))]
			if to.ID == users[i].ID { continue }
			_ = followRepo.Create(ctx, users[i].ID, to.ID)
		}
	}

	// seed posts with hashtags
	tags := []string{"travel", "food", "music", "golang", "cats", "dogs", "art", "night", "sea", "sun"}
	postIDs := make([]string, 0, POSTS)
	for i := 0; i < POSTS; i++ {
		author := users[rand.Intn(len(users))]
		n := rand.Intn(4)
		ts := make([]string, 0, n)
		for j := 0; j < n; j++ { ts = append(ts, tags[rand.Intn(len(tags))]) }
		p := must(postSvc.Publish(ctx, author.ID, fmt.Sprintf("hello %d", i), ts))
		postIDs = append(postIDs, p.ID)
	}

	// seed likes so the fallback walk has material
	for i := range users {
		for j := 0; j < LIKES; j++ {
			_ = postRepo.CreateLike(ctx, users[i].ID, postIDs[rand.Intn(len(postIDs))])
		}
	}

	// time feed assembly across random readers
	lats := make([]time.Duration, 0, RUNS)
	var total int
	start := time.Now()
	for i := 0; i < RUNS; i++ {
		u := users[rand.Intn(len(users))]
		st := time.Now()
		posts := must(timeline.Assemble(ctx, u.ID))
		lats = append(lats, time.Since(st))
		total += len(posts)
	}
	elapsed := time.Since(start)

	var sum time.Duration
	for _, d := range lats { sum += d }
	fmt.Printf("USERS=%d FOLLOWS=%d POSTS=%d LIKES=%d RUNS=%d\n", USERS, FOLLOWS, POSTS, LIKES, RUNS)
	fmt.Printf("Assemble latency: avg=%v p50=%v p95=%v p99=%v\n", sum/time.Duration(len(lats)), pct(lats, 0.50), pct(lats, 0.95), pct(lats, 0.99))
	fmt.Printf("runs=%d served_posts=%d elapsed=%v qps=%.1f\n", RUNS, total, elapsed, float64(RUNS)/elapsed.Seconds())
}
