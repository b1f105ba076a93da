package services

import (
	"context"

	"cheshired/internal/datastore/redis_store"
	"cheshired/internal/interfaces"
	"cheshired/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// ServicePrice serves price snapshots from redis and falls back to the
// upstream feed on a cold key. cmd/cron keeps the tracked token warm.
type ServicePrice struct {
	container *do.Injector
	redisDB   redis.UniversalClient
	feed      interfaces.PriceFeed
}

func NewServicePrice(container *do.Injector) (*ServicePrice, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	feed, err := do.Invoke[interfaces.PriceFeed](container)
	if err != nil {
		return nil, err
	}

	return &ServicePrice{container, redisDB, feed}, nil
}

func (service *ServicePrice) GetTokenPrice(ctx context.Context, tokenAddress string) (*models.TokenPrice, error) {
	price, err := redis_store.GetTokenPrice(ctx, service.redisDB, tokenAddress)
	if err == nil {
		return price, nil
	}
	if err != redis.Nil {
		return nil, err
	}

	return service.RefreshTokenPrice(ctx, tokenAddress)
}

func (service *ServicePrice) RefreshTokenPrice(ctx context.Context, tokenAddress string) (*models.TokenPrice, error) {
	price, err := service.feed.FetchPrice(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}

	err = redis_store.SetTokenPrice(ctx, service.redisDB, price)
	if err != nil {
		return nil, err
	}

	return price, nil
}
