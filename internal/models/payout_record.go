package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusConfirmed PayoutStatus = "confirmed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

// PayoutRecord is append-only: rows are inserted as pending (or failed when
// the pool reservation itself failed) and only ever transition status and
// transaction_reference. A failed transfer keeps the pool debit; re-crediting
// is a manual operator action.
type PayoutRecord struct {
	bun.BaseModel        `bun:"table:payout_record"`
	ID                   string       `bun:"id,pk" json:"id"`
	RecipientAddress     string       `bun:"recipient_address" json:"recipient_address"`
	Amount               int64        `bun:"amount" json:"amount"`
	SourcePostID         *string      `bun:"source_post_id" json:"source_post_id"`
	TransactionReference string       `bun:"transaction_reference" json:"transaction_reference"`
	Status               PayoutStatus `bun:"status" json:"status"`
	CreatedAt            time.Time    `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time    `bun:"updated_at" json:"updated_at"`
}

type PayoutStats struct {
	TotalPaidOut    int64 `json:"totalPaidOut"`
	RemainingToEarn int64 `json:"remainingToEarn"`
}
