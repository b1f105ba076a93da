package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"

	"cheshired/internal/datastore"
	"cheshired/internal/models"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigrate(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigrate() *cli.Command {
	return &cli.Command{
		Name:  "up",
		Usage: "create tables and seed the initial rules, pool and config",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db := getDb()

			creators := []func(context.Context, *bun.DB) error{
				datastore.CreateTableRule,
				datastore.CreateTableVerifiedPost,
				datastore.CreateTableRewardPool,
				datastore.CreateTablePayoutRecord,
				datastore.CreateTableUser,
				datastore.CreateTableChatMessage,
				datastore.CreateTableConfig,
			}
			for _, create := range creators {
				if err := create(ctx, db); err != nil {
					return err
				}
			}

			if err := seedRules(ctx, db); err != nil {
				return err
			}
			if err := seedRewardPool(ctx, db); err != nil {
				return err
			}
			if err := seedConfig(ctx, db); err != nil {
				return err
			}

			log.Println("migration done")
			return nil
		},
	}
}

func seedRules(ctx context.Context, db *bun.DB) error {
	rules := []models.Rule{
		{Kind: models.RuleKindCashtag, Pattern: "grin", Points: 10, Active: true},
		{Kind: models.RuleKindHashtag, Pattern: "grin", Points: 5, Active: true},
		{Kind: models.RuleKindHashtag, Pattern: "cheshireterminal", Points: 15, Active: true},
		{Kind: models.RuleKindMention, Pattern: "cheshiregpt", Points: 20, Active: true},
	}

	for i := range rules {
		if err := datastore.CreateRule(ctx, db, &rules[i]); err != nil {
			return err
		}
	}

	return nil
}

func seedRewardPool(ctx context.Context, db *bun.DB) error {
	total, err := strconv.ParseInt(os.Getenv("POOL_TOTAL_LAMPORTS"), 10, 64)
	if err != nil || total <= 0 {
		total = 100 * 1_000_000_000 // 100 SOL
	}

	pointValue, err := strconv.ParseInt(os.Getenv("POOL_POINT_VALUE_LAMPORTS"), 10, 64)
	if err != nil || pointValue <= 0 {
		pointValue = 1_000_000 // 0.001 SOL per point
	}

	return datastore.InitRewardPool(ctx, db, &models.RewardPool{
		TotalAmount: total,
		PointValue:  pointValue,
	})
}

func seedConfig(ctx context.Context, db *bun.DB) error {
	configs := []models.Config{
		{Key: "VERIFY_RATE_PER_MINUTE", Value: "6"},
		{Key: "VERIFY_LOOKBACK_POSTS", Value: "5"},
		{Key: "PAYOUT_HISTORY_PAGE_LIMIT", Value: "50"},
		{Key: "CRONJOB_TIME_PRICE", Value: "@every 5m"},
		{Key: "TRACKED_TOKEN_ADDRESS", Value: os.Getenv("TRACKED_TOKEN_ADDRESS")},
		{Key: "TREASURY_WALLET_ADDRESS", Value: os.Getenv("TREASURY_WALLET_ADDRESS")},
	}

	for i := range configs {
		if err := datastore.InsertConfig(ctx, db, &configs[i]); err != nil {
			return err
		}
	}

	return nil
}

func getDb() *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	return bun.NewDB(sqldb, pgdialect.New())
}
