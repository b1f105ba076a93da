package models

import (
	"time"

	"github.com/uptrace/bun"
)

// VerifiedPost is the scored snapshot of a social post. post_id is unique so
// a post can never be scored twice; re-verification returns the stored row.
type VerifiedPost struct {
	bun.BaseModel   `bun:"table:verified_post"`
	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	PostID          string    `bun:"post_id" json:"post_id"`
	AccountHandle   string    `bun:"account_handle" json:"account_handle"`
	BodyText        string    `bun:"body_text" json:"body_text"`
	MatchedTags     []string  `bun:"matched_tags,type:jsonb" json:"matched_tags"`
	MatchedMentions []string  `bun:"matched_mentions,type:jsonb" json:"matched_mentions"`
	PointsAwarded   int       `bun:"points_awarded" json:"points_awarded"`
	VerifiedAt      time.Time `bun:"verified_at" json:"verified_at"`
}
