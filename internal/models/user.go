package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel   `bun:"table:users"`
	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	WalletAddress   string    `bun:"wallet_address" json:"wallet_address"`
	TwitterUsername *string   `bun:"twitter_username" json:"twitter_username"`
	IsVerified      bool      `bun:"is_verified" json:"is_verified"`
	CreatedAt       time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at" json:"updated_at"`
}
