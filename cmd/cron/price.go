package main

import (
	"context"
	"log"
	"os"
	"time"

	"cheshired/internal/datastore"
	"cheshired/internal/datastore/redis_store"
	"cheshired/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

const defaultPriceSchedule = "@every 5m"

// PriceJob keeps the tracked token's price snapshot warm in redis so the
// dashboard never pays the upstream latency on a page load.
type PriceJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
	feed  *services.SolanaTrackerFeed
}

func NewPriceJob(redis redis.UniversalClient, db *bun.DB) *PriceJob {
	feed, err := services.NewSolanaTrackerFeed(os.Getenv("SOLANA_TRACKER_API_URL"), os.Getenv("SOLANA_TRACKER_API_KEY"))
	if err != nil {
		log.Println("price feed init:", err)
	}

	return &PriceJob{
		Redis: redis,
		Db:    db,
		feed:  feed,
	}
}

func (j *PriceJob) Start(cronRunner *cron.Cron) {
	schedule := defaultPriceSchedule
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, "CRONJOB_TIME_PRICE")
	if err == nil && timeline.Value != "" {
		schedule = timeline.Value
	}

	_, err = cronRunner.AddFunc(schedule, j.runScheduledTask)
	log.Println("Price Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)
	j.runScheduledTask()
}

func (j *PriceJob) runScheduledTask() {
	ctx := context.Background()

	tracked, err := datastore.GetConfigByKey(ctx, j.Db, services.CONFIG_TRACKED_TOKEN_ADDRESS)
	if err != nil || tracked.Value == "" {
		log.Println("no tracked token configured")
		return
	}

	price, err := j.feed.FetchPrice(ctx, tracked.Value)
	if err != nil {
		log.Println("refresh price:", err)
		return
	}

	err = redis_store.SetTokenPrice(ctx, j.Redis, price)
	if err != nil {
		log.Println("store price:", err)
		return
	}

	log.Printf("price refreshed: %s = $%f\n", tracked.Value, price.PriceUSD)
}
