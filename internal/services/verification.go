package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cheshired/internal/datastore"
	"cheshired/internal/interfaces"
	"cheshired/internal/models"
	"cheshired/internal/pkg/caching"
	"cheshired/internal/pkg/limiter"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServiceVerification is the verification gate: it pulls a handle's recent
// posts, scores the newest qualifying one and persists the result exactly
// once per post.
type ServiceVerification struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	limiter            interfaces.Limiter
	feed               interfaces.SocialFeed
	pool               *ServicePool
	config             *ServiceConfig
}

func NewServiceVerification(container *do.Injector) (*ServiceVerification, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	lim, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	feed, err := do.Invoke[interfaces.SocialFeed](container)
	if err != nil {
		return nil, err
	}

	pool, err := do.Invoke[*ServicePool](container)
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceVerification{container, postgresDB, readonlyPostgresDB, cache, readonlyCache, lim, feed, pool, config}, nil
}

// Verify rate-limits the handle and runs the gate. The lookback window is
// the handle's most recent posts (VERIFY_LOOKBACK_POSTS, default 5); the
// newest qualifying post wins.
func (service *ServiceVerification) Verify(ctx context.Context, accountHandle string) (*models.VerifiedPost, error) {
	if accountHandle == "" {
		return nil, errorx.Wrap(errors.New("missing account handle"), errorx.Invalid)
	}

	rate, _ := service.config.GetIntConfig(ctx, CONFIG_VERIFY_RATE_PER_MINUTE, VERIFY_RATE_LIMIT_PER_MINUTE_DEFAULT)
	err := service.limiter.Allow(ctx, LimitKeyVerifyHandle(accountHandle), redis_rate.PerMinute(rate))
	if err != nil {
		if errors.Is(err, limiter.ErrRateLimited) {
			return nil, errorx.Wrap(err, errorx.RateLimiting)
		}
		return nil, err
	}

	return service.verify(ctx, accountHandle)
}

func (service *ServiceVerification) verify(ctx context.Context, accountHandle string) (*models.VerifiedPost, error) {
	rules, err := service.pool.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	lookback, _ := service.config.GetIntConfig(ctx, CONFIG_VERIFY_LOOKBACK_POSTS, VERIFY_LOOKBACK_POSTS_DEFAULT)
	posts, err := service.feed.RecentPosts(ctx, accountHandle, lookback)
	if err != nil {
		return nil, err
	}

	// posts arrive newest first; the first qualifying one is the candidate
	for _, post := range posts {
		score := ScorePost(post.Text, rules)
		if score.Points == 0 {
			continue
		}

		return service.persist(ctx, accountHandle, post, score)
	}

	return nil, fmt.Errorf("%w: expected one of %s", ErrVerificationFailed, ExpectedMarkers(rules))
}

// persist stores the scored post once. A concurrent retry of the same
// request loses the insert race and reads back the winner's row, so both
// callers observe the identical VerifiedPost.
func (service *ServiceVerification) persist(ctx context.Context, accountHandle string, post models.SocialPost, score models.ScoreResult) (*models.VerifiedPost, error) {
	existing, err := datastore.FindVerifiedPostByPostID(ctx, service.postgresDB, post.ID)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	verified := &models.VerifiedPost{
		PostID:          post.ID,
		AccountHandle:   accountHandle,
		BodyText:        post.Text,
		MatchedTags:     score.MatchedTags,
		MatchedMentions: score.MatchedMentions,
		PointsAwarded:   score.Points,
		VerifiedAt:      time.Now(),
	}

	created, err := datastore.InsertVerifiedPost(ctx, service.postgresDB, verified)
	if err != nil {
		return nil, err
	}
	if !created {
		return datastore.FindVerifiedPostByPostID(ctx, service.postgresDB, post.ID)
	}

	return verified, nil
}

// FindVerifiedPost returns the stored result for a post id, if any.
func (service *ServiceVerification) FindVerifiedPost(ctx context.Context, postID string) (*models.VerifiedPost, error) {
	callback := func() (*models.VerifiedPost, error) {
		return datastore.FindVerifiedPostByPostID(ctx, service.readonlyPostgresDB, postID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyVerifiedPost(postID), CACHE_TTL_5_MINS, callback)
}
