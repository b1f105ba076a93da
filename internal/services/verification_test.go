package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cheshired/internal/models"
	"cheshired/internal/pkg/limiter"

	"github.com/go-redis/redis_rate/v10"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestVerification(db *bun.DB, feed *fakeFeed, lim *fakeLimiter) *ServiceVerification {
	if lim == nil {
		lim = &fakeLimiter{}
	}
	return &ServiceVerification{
		postgresDB:         db,
		readonlyPostgresDB: db,
		cache:              missCache{},
		readonlyCache:      missCache{},
		limiter:            lim,
		feed:               feed,
		pool:               newTestPool(db),
		config:             newTestConfig(db),
	}
}

func feedOf(posts ...models.SocialPost) *fakeFeed {
	return &fakeFeed{recentPostsFn: func(ctx context.Context, handle string, limit int) ([]models.SocialPost, error) {
		return posts, nil
	}}
}

func TestVerifyPicksNewestQualifyingPost(t *testing.T) {
	db := newTestDB(t)
	seedTestRules(t, db)

	now := time.Now()
	service := newTestVerification(db, feedOf(
		models.SocialPost{ID: "p3", Handle: "alice", Text: "just vibes", CreatedAt: now},
		models.SocialPost{ID: "p2", Handle: "alice", Text: "gm $grin fam #cheshireterminal", CreatedAt: now.Add(-time.Minute)},
		models.SocialPost{ID: "p1", Handle: "alice", Text: "$grin", CreatedAt: now.Add(-time.Hour)},
	), nil)

	verified, err := service.Verify(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "p2", verified.PostID)
	require.Equal(t, 25, verified.PointsAwarded)
	require.Equal(t, []string{"cheshireterminal", "grin"}, verified.MatchedTags)
}

func TestVerifyIdempotentAcrossRetries(t *testing.T) {
	db := newTestDB(t)
	seedTestRules(t, db)

	service := newTestVerification(db, feedOf(
		models.SocialPost{ID: "p1", Handle: "alice", Text: "$grin"},
	), nil)
	ctx := context.Background()

	first, err := service.Verify(ctx, "alice")
	require.NoError(t, err)

	second, err := service.Verify(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.PostID, second.PostID)
	require.Equal(t, first.PointsAwarded, second.PointsAwarded)

	var count int
	count, err = db.NewSelect().Model((*models.VerifiedPost)(nil)).Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestVerifyFailureNamesExpectedMarkers(t *testing.T) {
	db := newTestDB(t)
	seedTestRules(t, db)

	service := newTestVerification(db, feedOf(
		models.SocialPost{ID: "p1", Handle: "alice", Text: "nothing to see here"},
	), nil)

	_, err := service.Verify(context.Background(), "alice")
	require.ErrorIs(t, err, ErrVerificationFailed)
	require.Contains(t, err.Error(), "$grin")
	require.Contains(t, err.Error(), "#cheshireterminal")
	require.Contains(t, err.Error(), "@cheshiregpt")
}

func TestVerifyEmptyFeedFails(t *testing.T) {
	db := newTestDB(t)
	seedTestRules(t, db)

	service := newTestVerification(db, feedOf(), nil)

	_, err := service.Verify(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrVerificationFailed)
}

func TestVerifyPropagatesUpstreamError(t *testing.T) {
	db := newTestDB(t)
	seedTestRules(t, db)

	feed := &fakeFeed{recentPostsFn: func(ctx context.Context, handle string, limit int) ([]models.SocialPost, error) {
		return nil, fmt.Errorf("%w: status 503", ErrUpstreamUnavailable)
	}}
	service := newTestVerification(db, feed, nil)

	_, err := service.Verify(context.Background(), "alice")
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestVerifyRejectsEmptyHandle(t *testing.T) {
	db := newTestDB(t)
	service := newTestVerification(db, feedOf(), nil)

	_, err := service.Verify(context.Background(), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing account handle")
}

func TestVerifyRateLimited(t *testing.T) {
	db := newTestDB(t)
	seedTestRules(t, db)

	lim := &fakeLimiter{allowFn: func(ctx context.Context, key string, limit redis_rate.Limit) error {
		return limiter.ErrRateLimited
	}}
	service := newTestVerification(db, feedOf(), lim)

	_, err := service.Verify(context.Background(), "alice")
	require.Error(t, err)
	require.Contains(t, err.Error(), limiter.ErrRateLimited.Error())
}

func TestVerifyRateLimiterKeyIsPerHandle(t *testing.T) {
	db := newTestDB(t)
	seedTestRules(t, db)

	var seenKey string
	lim := &fakeLimiter{allowFn: func(ctx context.Context, key string, limit redis_rate.Limit) error {
		seenKey = key
		return errors.New("stop here")
	}}
	service := newTestVerification(db, feedOf(), lim)

	_, err := service.Verify(context.Background(), "Alice")
	require.Error(t, err)
	require.Equal(t, LimitKeyVerifyHandle("Alice"), seenKey)
	require.Equal(t, "verify:handle:alice", seenKey)
}
