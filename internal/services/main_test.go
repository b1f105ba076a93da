package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"cheshired/internal/datastore"
	"cheshired/internal/models"

	"github.com/go-redis/cache/v9"
	"github.com/go-redis/redis_rate/v10"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// systemProgramAddress and wrappedSolMint are well-known valid base58
// addresses usable as wallets in tests.
const (
	systemProgramAddress = "11111111111111111111111111111111"
	wrappedSolMint       = "So11111111111111111111111111111111111111112"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, datastore.CreateTableRule(ctx, db))
	require.NoError(t, datastore.CreateTableVerifiedPost(ctx, db))
	require.NoError(t, datastore.CreateTableRewardPool(ctx, db))
	require.NoError(t, datastore.CreateTablePayoutRecord(ctx, db))
	require.NoError(t, datastore.CreateTableConfig(ctx, db))

	return db
}

func seedPool(t *testing.T, db *bun.DB, total, pointValue int64) {
	t.Helper()
	require.NoError(t, datastore.InitRewardPool(context.Background(), db, &models.RewardPool{
		TotalAmount: total,
		PointValue:  pointValue,
	}))
}

func seedTestRules(t *testing.T, db *bun.DB) []models.Rule {
	t.Helper()
	rules := []models.Rule{
		{Kind: models.RuleKindCashtag, Pattern: "grin", Points: 10, Active: true},
		{Kind: models.RuleKindHashtag, Pattern: "grin", Points: 5, Active: true},
		{Kind: models.RuleKindHashtag, Pattern: "cheshireterminal", Points: 15, Active: true},
		{Kind: models.RuleKindMention, Pattern: "cheshiregpt", Points: 20, Active: true},
	}
	for i := range rules {
		require.NoError(t, datastore.CreateRule(context.Background(), db, &rules[i]))
	}
	return rules
}

// missCache never holds anything, so every read goes through to the store.
type missCache struct{}

func (missCache) Get(ctx context.Context, key string, target any) error { return cache.ErrCacheMiss }
func (missCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}
func (missCache) Delete(ctx context.Context, key string) error { return nil }

type fakeLimiter struct {
	allowFn func(ctx context.Context, key string, limit redis_rate.Limit) error
}

func (m *fakeLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	if m.allowFn != nil {
		return m.allowFn(ctx, key, limit)
	}
	return nil
}

func (m *fakeLimiter) AllowUser(ctx context.Context, key string, limit redis_rate.Limit) error {
	return m.Allow(ctx, "user:"+key, limit)
}

type fakeFeed struct {
	recentPostsFn func(ctx context.Context, handle string, limit int) ([]models.SocialPost, error)
}

func (m *fakeFeed) RecentPosts(ctx context.Context, handle string, limit int) ([]models.SocialPost, error) {
	if m.recentPostsFn != nil {
		return m.recentPostsFn(ctx, handle, limit)
	}
	return nil, nil
}

type fakeTransfer struct {
	sendFn func(ctx context.Context, recipient string, amount int64) (string, error)
	calls  int
}

func (m *fakeTransfer) SendTransfer(ctx context.Context, recipient string, amount int64) (string, error) {
	m.calls++
	if m.sendFn != nil {
		return m.sendFn(ctx, recipient, amount)
	}
	return "sig-test", nil
}

func newTestPool(db *bun.DB) *ServicePool {
	return &ServicePool{
		postgresDB:         db,
		readonlyPostgresDB: db,
		cache:              missCache{},
		readonlyCache:      missCache{},
	}
}

func newTestConfig(db *bun.DB) *ServiceConfig {
	return &ServiceConfig{
		readonlyPostgresDB: db,
		cache:              missCache{},
		readonlyCache:      missCache{},
	}
}
