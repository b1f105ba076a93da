package datastore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"cheshired/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, CreateTableRule(ctx, db))
	require.NoError(t, CreateTableVerifiedPost(ctx, db))
	require.NoError(t, CreateTableRewardPool(ctx, db))
	require.NoError(t, CreateTablePayoutRecord(ctx, db))
	require.NoError(t, CreateTableUser(ctx, db))
	require.NoError(t, CreateTableChatMessage(ctx, db))
	require.NoError(t, CreateTableConfig(ctx, db))

	return db
}

func TestInsertVerifiedPostOncePerPostID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	post := &models.VerifiedPost{PostID: "p1", AccountHandle: "alice", BodyText: "$grin", PointsAwarded: 10, VerifiedAt: time.Now()}
	created, err := InsertVerifiedPost(ctx, db, post)
	require.NoError(t, err)
	require.True(t, created)

	dupe := &models.VerifiedPost{PostID: "p1", AccountHandle: "alice", BodyText: "$grin", PointsAwarded: 99, VerifiedAt: time.Now()}
	created, err = InsertVerifiedPost(ctx, db, dupe)
	require.NoError(t, err)
	require.False(t, created)

	stored, err := FindVerifiedPostByPostID(ctx, db, "p1")
	require.NoError(t, err)
	require.Equal(t, 10, stored.PointsAwarded)
}

func TestReservePoolAmountBoundary(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, InitRewardPool(ctx, db, &models.RewardPool{TotalAmount: 50, PointValue: 1}))

	reserved, err := ReservePoolAmount(ctx, db, 50)
	require.NoError(t, err)
	require.True(t, reserved)

	reserved, err = ReservePoolAmount(ctx, db, 1)
	require.NoError(t, err)
	require.False(t, reserved)

	pool, err := GetRewardPool(ctx, db)
	require.NoError(t, err)
	require.Zero(t, pool.RemainingAmount)
}

func TestInitRewardPoolIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, InitRewardPool(ctx, db, &models.RewardPool{TotalAmount: 100, PointValue: 1}))
	reserved, err := ReservePoolAmount(ctx, db, 40)
	require.NoError(t, err)
	require.True(t, reserved)

	// re-running the migration must not reset the balance
	require.NoError(t, InitRewardPool(ctx, db, &models.RewardPool{TotalAmount: 100, PointValue: 1}))

	pool, err := GetRewardPool(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 60, pool.RemainingAmount)
}

func TestActivePayoutIndexAllowsRetryAfterFailure(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	postID := "p1"

	failed := &models.PayoutRecord{ID: "r1", RecipientAddress: "w1", Amount: 10, SourcePostID: &postID, Status: models.PayoutStatusFailed, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, InsertPayoutRecord(ctx, db, failed))

	active, err := FindActivePayoutBySourcePostID(ctx, db, postID)
	require.NoError(t, err)
	require.Nil(t, active)

	pending := &models.PayoutRecord{ID: "r2", RecipientAddress: "w1", Amount: 10, SourcePostID: &postID, Status: models.PayoutStatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, InsertPayoutRecord(ctx, db, pending))

	// a second live record for the same post violates the partial index
	another := &models.PayoutRecord{ID: "r3", RecipientAddress: "w2", Amount: 10, SourcePostID: &postID, Status: models.PayoutStatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.Error(t, InsertPayoutRecord(ctx, db, another))

	active, err = FindActivePayoutBySourcePostID(ctx, db, postID)
	require.NoError(t, err)
	require.Equal(t, "r2", active.ID)
}

func TestSumConfirmedPayoutsIgnoresOtherStatuses(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p1, p2, p3 := "a", "b", "c"
	records := []*models.PayoutRecord{
		{ID: "r1", RecipientAddress: "w1", Amount: 100, SourcePostID: &p1, Status: models.PayoutStatusConfirmed, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: "r2", RecipientAddress: "w1", Amount: 50, SourcePostID: &p2, Status: models.PayoutStatusFailed, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: "r3", RecipientAddress: "w2", Amount: 30, SourcePostID: &p3, Status: models.PayoutStatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
	for _, r := range records {
		require.NoError(t, InsertPayoutRecord(ctx, db, r))
	}

	total, err := SumConfirmedPayouts(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 100, total)
}

func TestCreateUserConvergesOnWallet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	first, err := CreateUser(ctx, db, &models.User{WalletAddress: "wallet-1", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	second, err := CreateUser(ctx, db, &models.User{WalletAddress: "wallet-1", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	require.NoError(t, SetUserVerified(ctx, db, "wallet-1", "alice"))
	verified, err := FindUserByWallet(ctx, db, "wallet-1")
	require.NoError(t, err)
	require.True(t, verified.IsVerified)
	require.Equal(t, "alice", *verified.TwitterUsername)
}

func TestChatMessagesPagedNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		msg := &models.ChatMessage{
			WalletAddress: "wallet-1",
			Message:       "q",
			Response:      "a",
			CreatedAt:     time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, InsertChatMessage(ctx, db, msg))
	}

	page, err := GetChatMessagesByWallet(ctx, db, "wallet-1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.True(t, page[0].CreatedAt.After(page[1].CreatedAt) || page[0].CreatedAt.Equal(page[1].CreatedAt))

	rest, err := GetChatMessagesByWallet(ctx, db, "wallet-1", 10, 2)
	require.NoError(t, err)
	require.Len(t, rest, 3)
}
