package models

import "time"

// SocialPost is a candidate post fetched from the upstream social feed,
// newest first. Only the fields the scanner needs are kept.
type SocialPost struct {
	ID        string    `json:"id" msgpack:"id"`
	Handle    string    `json:"handle" msgpack:"handle"`
	Text      string    `json:"text" msgpack:"text"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

// ScoreResult is the outcome of scanning one post body against a rule set.
// Matched slices are sorted and de-duplicated so scoring is reproducible.
type ScoreResult struct {
	Points          int      `json:"points"`
	MatchedTags     []string `json:"matched_tags"`
	MatchedMentions []string `json:"matched_mentions"`
}
