package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cheshired/internal/datastore"
	"cheshired/internal/interfaces"
	"cheshired/internal/models"
	"cheshired/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServicePayout is the sole writer of the reward pool and the payout ledger.
// Records are append-only; a failed transfer keeps its pool debit (manual
// reconciliation only) so the books never silently self-correct.
type ServicePayout struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	rs                 *redsync.Redsync
	cache              caching.Cache
	pool               *ServicePool
	config             *ServiceConfig
	transfer           interfaces.TransferClient
	bot                *Bot
}

func NewServicePayout(container *do.Injector) (*ServicePayout, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
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

	transfer, err := do.Invoke[interfaces.TransferClient](container)
	if err != nil {
		return nil, err
	}

	bot, err := do.Invoke[*Bot](container)
	if err != nil {
		return nil, err
	}

	return &ServicePayout{container, postgresDB, readonlyPostgresDB, rs, cache, pool, config, transfer, bot}, nil
}

// History lists a wallet's payout records, newest first.
func (service *ServicePayout) History(ctx context.Context, recipientAddress string) ([]models.PayoutRecord, error) {
	if err := ValidateSolanaAddress(recipientAddress); err != nil {
		return nil, err
	}

	limit, _ := service.config.GetIntConfig(ctx, CONFIG_PAYOUT_HISTORY_PAGE_LIMIT, PAYOUT_HISTORY_PAGE_LIMIT_DEFAULT)
	return datastore.GetPayoutsByRecipient(ctx, service.readonlyPostgresDB, recipientAddress, limit, 0)
}

// IssuePayout serializes issuance per source post across instances, then runs
// the core flow. The redsync mutex only narrows the race window; correctness
// comes from the store (conditional pool debit, partial unique index on
// source_post_id).
func (service *ServicePayout) IssuePayout(ctx context.Context, verifiedPost *models.VerifiedPost, recipientAddress string) (*models.PayoutRecord, error) {
	mutex := service.rs.NewMutex(LockKeyPayout(verifiedPost.PostID), redsync.WithExpiry(30*time.Second), redsync.WithTries(3))
	if err := mutex.Lock(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayoutLocked, err)
	}
	//nolint:errcheck
	defer mutex.Unlock()

	return service.issuePayout(ctx, verifiedPost, recipientAddress)
}

func (service *ServicePayout) issuePayout(ctx context.Context, verifiedPost *models.VerifiedPost, recipientAddress string) (*models.PayoutRecord, error) {
	if err := ValidateSolanaAddress(recipientAddress); err != nil {
		return nil, err
	}

	existing, err := datastore.FindActivePayoutBySourcePostID(ctx, service.postgresDB, verifiedPost.PostID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrAlreadyPaid
	}

	amount, err := service.pool.PointsToAmount(ctx, verifiedPost.PointsAwarded)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, ErrNothingToPay
	}

	err = service.pool.Reserve(ctx, amount)
	if err == ErrInsufficientPool {
		record := service.newRecord(verifiedPost, recipientAddress, amount)
		record.Status = models.PayoutStatusFailed
		if insertErr := datastore.InsertPayoutRecord(ctx, service.postgresDB, record); insertErr != nil {
			return nil, insertErr
		}

		service.alert(fmt.Sprintf("💸 pool exhausted: wanted %d lamports for post %s", amount, verifiedPost.PostID))
		return record, ErrPoolExhausted
	}
	if err != nil {
		return nil, err
	}

	record := service.newRecord(verifiedPost, recipientAddress, amount)
	err = datastore.InsertPayoutRecord(ctx, service.postgresDB, record)
	if err != nil {
		// likely a concurrent payout won the partial unique index; the
		// reservation stays debited for manual review
		service.alert(fmt.Sprintf("⚠️ orphaned reservation of %d lamports for post %s: %v", amount, verifiedPost.PostID, err))
		return nil, err
	}

	signature, err := service.transfer.SendTransfer(ctx, recipientAddress, amount)
	if err != nil {
		// deliberate: the reserved amount is NOT returned to the pool
		if updateErr := datastore.UpdatePayoutStatus(ctx, service.postgresDB, record.ID, models.PayoutStatusFailed, ""); updateErr != nil {
			log.Println("update payout record:", updateErr)
		}
		record.Status = models.PayoutStatusFailed

		service.alert(fmt.Sprintf("❌ transfer of %d lamports to %s failed (record %s): %v", amount, recipientAddress, record.ID, err))
		service.invalidateStats(ctx)
		return record, err
	}

	err = datastore.UpdatePayoutStatus(ctx, service.postgresDB, record.ID, models.PayoutStatusConfirmed, signature)
	if err != nil {
		return nil, err
	}
	record.Status = models.PayoutStatusConfirmed
	record.TransactionReference = signature

	service.invalidateStats(ctx)
	return record, nil
}

func (service *ServicePayout) newRecord(verifiedPost *models.VerifiedPost, recipientAddress string, amount int64) *models.PayoutRecord {
	postID := verifiedPost.PostID
	now := time.Now()
	return &models.PayoutRecord{
		ID:               uuid.NewString(),
		RecipientAddress: recipientAddress,
		Amount:           amount,
		SourcePostID:     &postID,
		Status:           models.PayoutStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (service *ServicePayout) invalidateStats(ctx context.Context) {
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyPayoutStats())
}

func (service *ServicePayout) alert(message string) {
	if service.bot == nil {
		return
	}

	go func() {
		if err := service.bot.SendAdminMsg(message); err != nil {
			log.Println("admin alert:", err)
		}
	}()
}
