package services

import (
	"testing"

	"cheshired/internal/models"

	"github.com/stretchr/testify/require"
)

func scannerRules() []models.Rule {
	return []models.Rule{
		{Kind: models.RuleKindCashtag, Pattern: "grin", Points: 10, Active: true},
		{Kind: models.RuleKindHashtag, Pattern: "grin", Points: 5, Active: true},
		{Kind: models.RuleKindHashtag, Pattern: "cheshireterminal", Points: 15, Active: true},
		{Kind: models.RuleKindMention, Pattern: "cheshiregpt", Points: 20, Active: true},
	}
}

func TestScorePostSumsDistinctRules(t *testing.T) {
	score := ScorePost("gm $grin fam #cheshireterminal", scannerRules())
	require.Equal(t, 25, score.Points)
	require.Equal(t, []string{"cheshireterminal", "grin"}, score.MatchedTags)
	require.Empty(t, score.MatchedMentions)
}

func TestScorePostCashtagAndHashtagAreDistinct(t *testing.T) {
	score := ScorePost("$grin #grin", scannerRules())
	require.Equal(t, 15, score.Points)
	require.Equal(t, []string{"grin"}, score.MatchedTags)
}

func TestScorePostRepetitionCountsOnce(t *testing.T) {
	score := ScorePost("$grin $grin $grin $GRIN", scannerRules())
	require.Equal(t, 10, score.Points)
}

func TestScorePostNoSubstringMatch(t *testing.T) {
	for _, body := range []string{
		"grinning all day",
		"$grinning",
		"#cheshireterminals",
		"cheshiregpt without the sigil",
		"x$grin", // sigil must start the token
	} {
		score := ScorePost(body, scannerRules())
		require.Zero(t, score.Points, "body %q", body)
	}
}

func TestScorePostMatchesMention(t *testing.T) {
	score := ScorePost("shoutout @CheshireGPT!", scannerRules())
	require.Equal(t, 20, score.Points)
	require.Equal(t, []string{"cheshiregpt"}, score.MatchedMentions)
	require.Empty(t, score.MatchedTags)
}

func TestScorePostTrimsPunctuation(t *testing.T) {
	score := ScorePost("love it ($grin), truly. #cheshireterminal!", scannerRules())
	require.Equal(t, 25, score.Points)
}

func TestScorePostSkipsInactiveRules(t *testing.T) {
	rules := scannerRules()
	rules[0].Active = false

	score := ScorePost("$grin #cheshireterminal", rules)
	require.Equal(t, 15, score.Points)
	require.Equal(t, []string{"cheshireterminal"}, score.MatchedTags)
}

func TestScorePostEmptyInputs(t *testing.T) {
	require.Zero(t, ScorePost("", scannerRules()).Points)
	require.Zero(t, ScorePost("gm $grin", nil).Points)
	require.Zero(t, ScorePost("   \n\t  ", scannerRules()).Points)
}

func TestScorePostDeterministic(t *testing.T) {
	body := "gm $grin fam #cheshireterminal @cheshiregpt"
	first := ScorePost(body, scannerRules())
	for i := 0; i < 100; i++ {
		require.Equal(t, first, ScorePost(body, scannerRules()))
	}
	require.Equal(t, 45, first.Points)
}

func TestExpectedMarkers(t *testing.T) {
	require.Equal(t, "$grin, #grin, #cheshireterminal, @cheshiregpt", ExpectedMarkers(scannerRules()))

	rules := scannerRules()
	rules[1].Active = false
	require.Equal(t, "$grin, #cheshireterminal, @cheshiregpt", ExpectedMarkers(rules))
}
