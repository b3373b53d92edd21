package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

func TestCompareScenarios(t *testing.T) {
	res, err := Compare(scenarioA(), scenarioB())
	require.NoError(t, err)

	assert.Equal(t, entity.OutcomeBMoreLikelyReal, res.Outcome)

	realSide, ok := res.MoreLikelyReal()
	require.True(t, ok)
	assert.Equal(t, "citynews", realSide.Handle)

	botSide, ok := res.MoreLikelyBot()
	require.True(t, ok)
	assert.Equal(t, "spamcannon", botSide.Handle)

	// Order of arguments does not change the verdict
	swapped, err := Compare(scenarioB(), scenarioA())
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeAMoreLikelyReal, swapped.Outcome)
	realSide, _ = swapped.MoreLikelyReal()
	assert.Equal(t, "citynews", realSide.Handle)
}

func TestCompareTieIsInconclusive(t *testing.T) {
	a := scenarioB()
	b := scenarioB()
	b.Handle = "citynews_backup"

	res, err := Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeInconclusive, res.Outcome)

	_, ok := res.MoreLikelyReal()
	assert.False(t, ok)
	_, ok = res.MoreLikelyBot()
	assert.False(t, ok)
}

func TestCompareRejectsSameAccount(t *testing.T) {
	a := scenarioA()
	b := scenarioA()
	b.Handle = "SpamCannon"

	_, err := Compare(a, b)
	assert.ErrorIs(t, err, entity.ErrSameAccount)
}

func TestCompareTable(t *testing.T) {
	a := scenarioA()
	a.FollowingCount = 0
	b := scenarioB()
	b.PostCount = 0

	res, err := Compare(a, b)
	require.NoError(t, err)

	rows := make(map[string]entity.ComparisonRow, len(res.Table))
	for _, row := range res.Table {
		rows[row.Key] = row
	}

	for _, key := range []string{
		"bot_probability", "follow_ratio", "posts_per_day", "repost_percentage",
		"interaction_rate", "engagement_rate", "likes_per_post", "account_age_days",
		"verification", "verified",
	} {
		assert.Contains(t, rows, key)
	}

	assert.Equal(t, "∞", rows["follow_ratio"].A.Text)
	assert.Equal(t, "0.00", rows["likes_per_post"].B.Text)
	assert.Equal(t, "no", rows["verified"].A.Text)
	assert.Equal(t, "yes", rows["verified"].B.Text)
	assert.Equal(t, "official verification", rows["verification"].B.Text)
	assert.Equal(t, "5", rows["account_age_days"].A.Text)
	assert.Equal(t, entity.Number(res.A.BotProbability), rows["bot_probability"].A.Value)

	// The table must be encodable even with an infinite ratio
	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"Infinity"`)
}
