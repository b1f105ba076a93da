package services

import (
	"sort"
	"strings"

	"cheshired/internal/models"
)

// The scanner is a total function over its inputs: any body and any rule set
// produce a score, never an error.

const tokenTrimCutset = ".,!?;:()[]{}'\"…"

// ScorePost matches the body against the active rules and sums the points of
// every distinct matching rule. A rule matches when its sigil+pattern appears
// as a standalone token ("$grin" matches "gm $grin fam" but not "grinning" or
// "$grinning"), and contributes its points once no matter how often the
// marker repeats.
func ScorePost(bodyText string, rules []models.Rule) models.ScoreResult {
	result := models.ScoreResult{
		MatchedTags:     []string{},
		MatchedMentions: []string{},
	}

	tokens := tokenize(bodyText)
	if len(tokens) == 0 {
		return result
	}

	tagSeen := map[string]bool{}
	mentionSeen := map[string]bool{}

	for _, rule := range rules {
		if !rule.Active || !rule.Kind.Valid() || rule.Pattern == "" {
			continue
		}

		if !tokens[strings.ToLower(rule.Marker())] {
			continue
		}

		result.Points += rule.Points
		switch rule.Kind {
		case models.RuleKindMention:
			if !mentionSeen[rule.Pattern] {
				mentionSeen[rule.Pattern] = true
				result.MatchedMentions = append(result.MatchedMentions, rule.Pattern)
			}
		default:
			if !tagSeen[rule.Pattern] {
				tagSeen[rule.Pattern] = true
				result.MatchedTags = append(result.MatchedTags, rule.Pattern)
			}
		}
	}

	sort.Strings(result.MatchedTags)
	sort.Strings(result.MatchedMentions)
	return result
}

func tokenize(bodyText string) map[string]bool {
	tokens := map[string]bool{}
	for _, field := range strings.Fields(strings.ToLower(bodyText)) {
		token := strings.Trim(field, tokenTrimCutset)
		if token != "" {
			tokens[token] = true
		}
	}

	return tokens
}

// ExpectedMarkers renders the active rule markers for the verification
// failure message, e.g. "$grin, #grin, #cheshireterminal, @cheshiregpt".
func ExpectedMarkers(rules []models.Rule) string {
	markers := make([]string, 0, len(rules))
	for _, rule := range rules {
		if rule.Active {
			markers = append(markers, rule.Marker())
		}
	}

	return strings.Join(markers, ", ")
}
