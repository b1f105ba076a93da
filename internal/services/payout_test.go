package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cheshired/internal/datastore"
	"cheshired/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestPayout(db *bun.DB, transfer *fakeTransfer) *ServicePayout {
	return &ServicePayout{
		postgresDB:         db,
		readonlyPostgresDB: db,
		cache:              missCache{},
		pool:               newTestPool(db),
		config:             newTestConfig(db),
		transfer:           transfer,
	}
}

func verifiedPost(points int) *models.VerifiedPost {
	return &models.VerifiedPost{
		PostID:        "post-1",
		AccountHandle: "alice",
		BodyText:      "gm $grin fam",
		PointsAwarded: points,
		VerifiedAt:    time.Now(),
	}
}

func TestIssuePayoutConfirmedFlow(t *testing.T) {
	db := newTestDB(t)
	seedPool(t, db, 1_000, 10)
	transfer := &fakeTransfer{}
	service := newTestPayout(db, transfer)
	ctx := context.Background()

	record, err := service.issuePayout(ctx, verifiedPost(25), systemProgramAddress)
	require.NoError(t, err)
	require.Equal(t, models.PayoutStatusConfirmed, record.Status)
	require.EqualValues(t, 250, record.Amount)
	require.Equal(t, "sig-test", record.TransactionReference)
	require.Equal(t, systemProgramAddress, record.RecipientAddress)
	require.NotEmpty(t, record.ID)
	require.Equal(t, 1, transfer.calls)

	state, err := service.pool.CurrentState(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 750, state.RemainingAmount)

	total, err := datastore.SumConfirmedPayouts(ctx, db)
	require.NoError(t, err)
	require.EqualValues(t, 250, total)
}

func TestIssuePayoutNoDoublePay(t *testing.T) {
	db := newTestDB(t)
	seedPool(t, db, 1_000, 10)
	transfer := &fakeTransfer{}
	service := newTestPayout(db, transfer)
	ctx := context.Background()

	first, err := service.issuePayout(ctx, verifiedPost(10), systemProgramAddress)
	require.NoError(t, err)

	// same post, different wallet: still refused
	second, err := service.issuePayout(ctx, verifiedPost(10), wrappedSolMint)
	require.ErrorIs(t, err, ErrAlreadyPaid)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, transfer.calls)

	state, err := service.pool.CurrentState(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 900, state.RemainingAmount)
}

func TestIssuePayoutInvalidAddress(t *testing.T) {
	db := newTestDB(t)
	seedPool(t, db, 1_000, 10)
	transfer := &fakeTransfer{}
	service := newTestPayout(db, transfer)

	for _, address := range []string{"", "not-base58-0OIl", "abc", systemProgramAddress + "1111111111"} {
		_, err := service.issuePayout(context.Background(), verifiedPost(10), address)
		require.ErrorIs(t, err, ErrInvalidAddress, "address %q", address)
	}
	require.Zero(t, transfer.calls)
}

func TestIssuePayoutZeroPoints(t *testing.T) {
	db := newTestDB(t)
	seedPool(t, db, 1_000, 10)
	transfer := &fakeTransfer{}
	service := newTestPayout(db, transfer)

	_, err := service.issuePayout(context.Background(), verifiedPost(0), systemProgramAddress)
	require.ErrorIs(t, err, ErrNothingToPay)
	require.Zero(t, transfer.calls)
}

func TestIssuePayoutPoolExhausted(t *testing.T) {
	db := newTestDB(t)
	seedPool(t, db, 100, 10) // 25 points would need 250
	transfer := &fakeTransfer{}
	service := newTestPayout(db, transfer)
	ctx := context.Background()

	record, err := service.issuePayout(ctx, verifiedPost(25), systemProgramAddress)
	require.ErrorIs(t, err, ErrPoolExhausted)
	require.Equal(t, models.PayoutStatusFailed, record.Status)
	require.Zero(t, transfer.calls)

	// the failed attempt keeps an audit row but doesn't block a later retry
	active, err := datastore.FindActivePayoutBySourcePostID(ctx, db, "post-1")
	require.NoError(t, err)
	require.Nil(t, active)

	state, err := service.pool.CurrentState(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 100, state.RemainingAmount)
}

func TestIssuePayoutFailedTransferKeepsDebit(t *testing.T) {
	db := newTestDB(t)
	seedPool(t, db, 1_000, 10)
	transfer := &fakeTransfer{sendFn: func(ctx context.Context, recipient string, amount int64) (string, error) {
		return "", errors.New("rpc timeout")
	}}
	service := newTestPayout(db, transfer)
	ctx := context.Background()

	record, err := service.issuePayout(ctx, verifiedPost(10), systemProgramAddress)
	require.Error(t, err)
	require.Equal(t, models.PayoutStatusFailed, record.Status)

	// the reservation is not rolled back; reconciliation is manual
	state, err := service.pool.CurrentState(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 900, state.RemainingAmount)

	total, err := datastore.SumConfirmedPayouts(ctx, db)
	require.NoError(t, err)
	require.Zero(t, total)

	// a failed transfer doesn't lock the post out forever
	retried, err := service.issuePayout(ctx, verifiedPost(10), systemProgramAddress)
	require.Error(t, err)
	require.NotEqual(t, record.ID, retried.ID)
}

func TestHistoryValidatesWallet(t *testing.T) {
	db := newTestDB(t)
	seedPool(t, db, 1_000, 10)
	service := newTestPayout(db, &fakeTransfer{})
	ctx := context.Background()

	_, err := service.History(ctx, "nope")
	require.ErrorIs(t, err, ErrInvalidAddress)

	_, err = service.issuePayout(ctx, verifiedPost(10), systemProgramAddress)
	require.NoError(t, err)

	records, err := service.History(ctx, systemProgramAddress)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, models.PayoutStatusConfirmed, records[0].Status)
}

func TestValidateSolanaAddress(t *testing.T) {
	require.NoError(t, ValidateSolanaAddress(systemProgramAddress))
	require.NoError(t, ValidateSolanaAddress(wrappedSolMint))

	require.ErrorIs(t, ValidateSolanaAddress(""), ErrInvalidAddress)
	require.ErrorIs(t, ValidateSolanaAddress("0x52908400098527886E0F7030069857D2E4169EE7"), ErrInvalidAddress)
	require.ErrorIs(t, ValidateSolanaAddress("shorty"), ErrInvalidAddress)
}
