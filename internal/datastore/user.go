package datastore

import (
	"context"
	"time"

	"cheshired/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_users_wallet_address").Unique().IfNotExists().Column("wallet_address").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindUserByWallet(ctx context.Context, db bun.IDB, walletAddress string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("wallet_address = ?", walletAddress).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func CreateUser(ctx context.Context, db bun.IDB, user *models.User) (*models.User, error) {
	_, err := db.NewInsert().Model(user).On("CONFLICT (wallet_address) DO NOTHING").Exec(ctx)
	if err != nil {
		return nil, err
	}

	return FindUserByWallet(ctx, db, user.WalletAddress)
}

func SetUserVerified(ctx context.Context, db bun.IDB, walletAddress string, twitterUsername string) error {
	_, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("twitter_username = ?", twitterUsername).
		Set("is_verified = ?", true).
		Set("updated_at = ?", time.Now()).
		Where("wallet_address = ?", walletAddress).Exec(ctx)
	return err
}
