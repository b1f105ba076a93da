package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ChatMessage persists one exchange with the themed assistant. The completion
// itself happens client-side; we only keep the transcript.
type ChatMessage struct {
	bun.BaseModel `bun:"table:chat_message"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	WalletAddress string    `bun:"wallet_address" json:"wallet_address"`
	Message       string    `bun:"message" json:"message"`
	Response      string    `bun:"response" json:"response"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}
