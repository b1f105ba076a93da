package services

import (
	"context"

	"cheshired/internal/datastore"
	"cheshired/internal/models"
	"cheshired/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceStats struct {
	container          *do.Injector
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	pool               *ServicePool
}

func NewServiceStats(container *do.Injector) (*ServiceStats, error) {
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

	pool, err := do.Invoke[*ServicePool](container)
	if err != nil {
		return nil, err
	}

	return &ServiceStats{container, readonlyPostgresDB, cache, readonlyCache, pool}, nil
}

// GetStats reports lamports paid out (confirmed records only) and what is
// left in the pool. Pure read; the cache just takes load off the SUM.
func (service *ServiceStats) GetStats(ctx context.Context) (*models.PayoutStats, error) {
	callback := func() (*models.PayoutStats, error) {
		totalPaidOut, err := datastore.SumConfirmedPayouts(ctx, service.readonlyPostgresDB)
		if err != nil {
			return nil, err
		}

		pool, err := service.pool.CurrentState(ctx)
		if err != nil {
			return nil, err
		}

		return &models.PayoutStats{
			TotalPaidOut:    totalPaidOut,
			RemainingToEarn: pool.RemainingAmount,
		}, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyPayoutStats(), CACHE_TTL_15_SECONDS, callback)
}
