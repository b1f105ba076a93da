package models

import "time"

// TokenPrice is a redis snapshot of the upstream price feed, refreshed by
// cmd/cron and served read-only by the API.
type TokenPrice struct {
	Address      string    `json:"address" msgpack:"address"`
	PriceUSD     float64   `json:"price_usd" msgpack:"price_usd"`
	MarketCapUSD float64   `json:"market_cap_usd" msgpack:"market_cap_usd"`
	FetchedAt    time.Time `json:"fetched_at" msgpack:"fetched_at"`
}
