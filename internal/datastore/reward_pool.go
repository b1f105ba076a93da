package datastore

import (
	"context"
	"time"

	"cheshired/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableRewardPool(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.RewardPool)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InitRewardPool inserts the singleton pool row if it does not exist yet. An
// existing pool is never overwritten; resizing is a manual operation.
func InitRewardPool(ctx context.Context, db bun.IDB, pool *models.RewardPool) error {
	pool.ID = models.RewardPoolID
	if pool.RemainingAmount == 0 {
		pool.RemainingAmount = pool.TotalAmount
	}
	pool.LastUpdated = time.Now()

	_, err := db.NewInsert().Model(pool).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func GetRewardPool(ctx context.Context, db bun.IDB) (*models.RewardPool, error) {
	var pool models.RewardPool
	err := db.NewSelect().Model(&pool).Where("id = ?", models.RewardPoolID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &pool, nil
}

// ReservePoolAmount debits amount from the pool in one conditional UPDATE.
// The WHERE clause is the whole double-spend defense: two concurrent debits
// serialize on the row and the second one sees the already-reduced balance.
// Returns false, leaving the pool untouched, when the balance is short.
func ReservePoolAmount(ctx context.Context, db bun.IDB, amount int64) (bool, error) {
	res, err := db.NewUpdate().Model((*models.RewardPool)(nil)).
		Set("remaining_amount = remaining_amount - ?", amount).
		Set("last_updated = ?", time.Now()).
		Where("id = ?", models.RewardPoolID).
		Where("remaining_amount >= ?", amount).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}
