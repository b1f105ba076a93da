package models

import (
	"time"

	"github.com/uptrace/bun"
)

const RewardPoolID = 1

// RewardPool is a single-row table. Amounts are lamports (the chain's base
// unit); the UI divides by 1e9 for display. remaining_amount only moves
// through the conditional debit in datastore.ReservePoolAmount.
type RewardPool struct {
	bun.BaseModel   `bun:"table:reward_pool"`
	ID              int       `bun:"id,pk" json:"-"`
	TotalAmount     int64     `bun:"total_amount" json:"total_amount"`
	RemainingAmount int64     `bun:"remaining_amount" json:"remaining_amount"`
	PointValue      int64     `bun:"point_value" json:"point_value"`
	LastUpdated     time.Time `bun:"last_updated" json:"last_updated"`
}
