package services

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"cheshired/internal/datastore"
	"cheshired/internal/models"
	"cheshired/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceUser struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
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

	return &ServiceUser{container, postgresDB, readonlyPostgresDB, cache, readonlyCache}, nil
}

// ConnectWallet finds or creates the user row for a wallet address. The
// unique index makes concurrent connects converge on one row.
func (service *ServiceUser) ConnectWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	if err := ValidateSolanaAddress(walletAddress); err != nil {
		return nil, err
	}

	user, err := datastore.FindUserByWallet(ctx, service.postgresDB, walletAddress)
	if err == nil {
		return user, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	now := time.Now()
	newUser := &models.User{
		WalletAddress: walletAddress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	log.Println("connect new wallet:", walletAddress)
	return datastore.CreateUser(ctx, service.postgresDB, newUser)
}

func (service *ServiceUser) FindUserByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	callback := func() (*models.User, error) {
		return datastore.FindUserByWallet(ctx, service.readonlyPostgresDB, walletAddress)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserByWallet(walletAddress), CACHE_TTL_5_MINS, callback)
}

// MarkVerified links the social handle to the wallet after a successful
// verification.
func (service *ServiceUser) MarkVerified(ctx context.Context, walletAddress, twitterUsername string) error {
	err := datastore.SetUserVerified(ctx, service.postgresDB, walletAddress, strings.ToLower(twitterUsername))
	if err != nil {
		return err
	}

	return service.cache.Delete(ctx, DBKeyUserByWallet(walletAddress))
}
