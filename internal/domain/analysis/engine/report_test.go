package engine

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

func TestDescribe(t *testing.T) {
	s := scenarioA()
	r := Analyze(s)

	report := Describe(s, r)
	require.Len(t, report.Metrics, len(entity.Factors))

	for i, m := range report.Metrics {
		assert.Equal(t, entity.Factors[i], m.Factor)
		assert.NotEmpty(t, m.Title)
		assert.NotEmpty(t, m.Description)
		assert.Equal(t, r.Interpretations[m.Factor], m.Interpretation)
	}

	byFactor := make(map[entity.Factor]entity.Metric)
	for _, m := range report.Metrics {
		byFactor[m.Factor] = m
	}
	assert.Equal(t, "95.00%", byFactor[entity.FactorRepostPercentage].Value)
	assert.Equal(t, "30%", byFactor[entity.FactorRepostPercentage].Baseline)
	assert.Equal(t, "1.20", byFactor[entity.FactorFollowRatio].Baseline)
	assert.Equal(t, "730", byFactor[entity.FactorAccountAge].Baseline)
	assert.Equal(t, "not verified", byFactor[entity.FactorVerification].Value)

	assert.Equal(t, entity.Activity{Posts: 1000, Reposts: 950, Mentions: 10, Likes: 5}, report.Activity)
}

func TestFactorSetJSONRoundTripsInfinity(t *testing.T) {
	in := entity.FactorSet{
		FollowRatio:    math.Inf(1),
		AccountAgeDays: 12,
		Verification:   entity.VerificationStandard,
	}

	body, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"follow_ratio":"Infinity"`)

	var out entity.FactorSet
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, math.IsInf(out.FollowRatio, 1))
	assert.Equal(t, 12.0, out.AccountAgeDays)
	assert.Equal(t, entity.VerificationStandard, out.Verification)
}

func TestLabelText(t *testing.T) {
	body, err := json.Marshal(struct {
		Label entity.Label `json:"label"`
	}{entity.LabelPossiblyBot})
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"possibly a bot"}`, string(body))

	l, err := entity.ParseLabel("very likely real")
	require.NoError(t, err)
	assert.Equal(t, entity.LabelVeryLikelyReal, l)

	_, err = entity.ParseLabel("maybe")
	assert.ErrorIs(t, err, entity.ErrInvalidLabel)
}
