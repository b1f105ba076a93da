package services

import (
	"context"

	"cheshired/internal/datastore"
	"cheshired/internal/models"
	"cheshired/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServicePool is the reward pool ledger. The only mutating operation is
// Reserve; everything else is a read.
type ServicePool struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServicePool(container *do.Injector) (*ServicePool, error) {
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

	return &ServicePool{container, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

func (service *ServicePool) ActiveRules(ctx context.Context) ([]models.Rule, error) {
	callback := func() ([]models.Rule, error) {
		return datastore.GetActiveRules(ctx, service.readonlyPostgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyActiveRules(), CACHE_TTL_5_MINS, callback)
}

// CurrentState reads the pool row. Cached briefly; Reserve never goes through
// the cache.
func (service *ServicePool) CurrentState(ctx context.Context) (*models.RewardPool, error) {
	callback := func() (*models.RewardPool, error) {
		return datastore.GetRewardPool(ctx, service.readonlyPostgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyRewardPool(), CACHE_TTL_15_SECONDS, callback)
}

// PointsToAmount converts engagement points to lamports. Integer on both
// sides, so no rounding is involved.
func (service *ServicePool) PointsToAmount(ctx context.Context, points int) (int64, error) {
	pool, err := service.CurrentState(ctx)
	if err != nil {
		return 0, err
	}

	return int64(points) * pool.PointValue, nil
}

// Reserve debits amount from the pool, all-or-nothing. The conditional
// UPDATE in the store serializes concurrent reservations; a stale in-process
// balance check can never over-spend the pool.
func (service *ServicePool) Reserve(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return ErrNothingToPay
	}

	reserved, err := datastore.ReservePoolAmount(ctx, service.postgresDB, amount)
	if err != nil {
		return err
	}
	if !reserved {
		return ErrInsufficientPool
	}

	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyRewardPool())
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyPayoutStats())
	return nil
}
