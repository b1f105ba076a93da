package models

import (
	"time"

	"github.com/uptrace/bun"
)

type RuleKind string

const (
	RuleKindCashtag RuleKind = "cashtag"
	RuleKindHashtag RuleKind = "hashtag"
	RuleKindMention RuleKind = "mention"
)

// Sigil returns the marker prefix a post token must carry for the kind.
func (k RuleKind) Sigil() string {
	switch k {
	case RuleKindCashtag:
		return "$"
	case RuleKindHashtag:
		return "#"
	case RuleKindMention:
		return "@"
	}
	return ""
}

func (k RuleKind) Valid() bool {
	return k.Sigil() != ""
}

// Rule awards Points when the marker Sigil()+Pattern appears in a post as a
// standalone token. Pattern is stored lowercase without the sigil.
type Rule struct {
	bun.BaseModel `bun:"table:point_rule"`
	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	Kind          RuleKind  `bun:"kind" json:"kind"`
	Pattern       string    `bun:"pattern" json:"pattern"`
	Points        int       `bun:"points" json:"points"`
	Active        bool      `bun:"active" json:"-"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// Marker renders the user-facing form of the rule, e.g. "$grin".
func (r Rule) Marker() string {
	return r.Kind.Sigil() + r.Pattern
}
