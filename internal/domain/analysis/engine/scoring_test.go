package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

var capturedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// scenarioA is a young, repost-heavy account following far more than it is followed
func scenarioA() entity.AccountSnapshot {
	return entity.AccountSnapshot{
		DisplayName:    "Spam Cannon",
		Handle:         "spamcannon",
		FollowerCount:  10,
		FollowingCount: 10000,
		PostCount:      1000,
		RepostCount:    950,
		MentionCount:   10,
		LikeCount:      5,
		CreatedAt:      capturedAt.Add(-5 * day),
		CapturedAt:     capturedAt,
		Verification:   entity.VerificationNone,
	}
}

// scenarioB is an established, organization-verified account with a large audience
func scenarioB() entity.AccountSnapshot {
	return entity.AccountSnapshot{
		DisplayName:    "City Newsroom",
		Handle:         "citynews",
		FollowerCount:  50000,
		FollowingCount: 300,
		PostCount:      4000,
		RepostCount:    200,
		MentionCount:   1500,
		LikeCount:      600000,
		CreatedAt:      capturedAt.AddDate(-5, 0, 0),
		CapturedAt:     capturedAt,
		Verification:   entity.VerificationOrganization,
	}
}

func TestAnalyzeScenarioA(t *testing.T) {
	assert := assert.New(t)

	res := Analyze(scenarioA())

	assert.Less(res.Factors.FollowRatio, 0.01)
	assert.InDelta(95, res.Factors.RepostPercentage, 1e-9)
	assert.InDelta(5, res.Factors.AccountAgeDays, 1e-9)
	assert.InDelta(200, res.Factors.PostsPerDay, 1e-9)
	assert.InDelta(1, res.Factors.InteractionRate, 1e-9)
	// (likes + reposts) / followers is huge, which earns the -0.5 engagement credit
	assert.InDelta(9550, res.Factors.EngagementRate, 1e-9)

	assert.InDelta(4.5, res.RawScore, 1e-9)
	assert.InDelta(4.5/7*100, res.BotProbability, 1e-9)
	assert.Equal(entity.LabelPossiblyBot, res.Label)
	assert.Equal("spamcannon", res.Handle)
}

func TestAnalyzeVeryLikelyBot(t *testing.T) {
	assert := assert.New(t)

	s := entity.AccountSnapshot{
		Handle:         "amplifier",
		FollowerCount:  100000,
		FollowingCount: 20000000,
		PostCount:      1000,
		RepostCount:    900,
		MentionCount:   10,
		CreatedAt:      capturedAt.Add(-5 * day),
		CapturedAt:     capturedAt,
		Verification:   entity.VerificationNone,
	}

	res := Analyze(s)
	assert.InDelta(5.5, res.RawScore, 1e-9)
	assert.Equal(entity.LabelVeryLikelyBot, res.Label)
	assert.GreaterOrEqual(res.BotProbability, 75.0)
}

func TestAnalyzeScenarioB(t *testing.T) {
	assert := assert.New(t)

	res := Analyze(scenarioB())

	assert.Greater(res.Factors.FollowRatio, 100.0)
	assert.InDelta(-1.5, res.RawScore, 1e-9)
	assert.Equal(0.0, res.BotProbability)
	assert.Equal(entity.LabelVeryLikelyReal, res.Label)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	s := scenarioA()
	first := Analyze(s)
	second := Analyze(s)

	assert.Equal(t, first, second)
	assert.Equal(t, scenarioA(), s)
}

func TestProbabilityIsClamped(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.0, Probability(-3))
	assert.Equal(100.0, Probability(8))
	assert.Equal(0.0, Probability(math.NaN()))
	assert.InDelta(50, Probability(3.5), 1e-9)

	for raw := -4.0; raw <= 8.0; raw += 0.25 {
		p := Probability(raw)
		assert.GreaterOrEqual(p, 0.0)
		assert.LessOrEqual(p, 100.0)
	}
}

func TestLabelForIsMonotonic(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(entity.LabelVeryLikelyReal, LabelFor(0))
	assert.Equal(entity.LabelVeryLikelyReal, LabelFor(24.999))
	assert.Equal(entity.LabelLikelyReal, LabelFor(25))
	assert.Equal(entity.LabelLikelyReal, LabelFor(49.999))
	assert.Equal(entity.LabelPossiblyBot, LabelFor(50))
	assert.Equal(entity.LabelPossiblyBot, LabelFor(74.999))
	assert.Equal(entity.LabelVeryLikelyBot, LabelFor(75))
	assert.Equal(entity.LabelVeryLikelyBot, LabelFor(100))

	prev := LabelFor(0)
	for p := 0.0; p <= 100; p += 0.5 {
		l := LabelFor(p)
		assert.GreaterOrEqual(l, prev, "label decreased at %v", p)
		prev = l
	}
}

func TestFollowingZeroScoresAsHighRatio(t *testing.T) {
	s := scenarioB()
	s.FollowingCount = 0

	f := ComputeFactors(s)
	require.True(t, math.IsInf(f.FollowRatio, 1))
	assert.Equal(t, 0.5, scoreFollowRatio(f))
	assert.Equal(t, "very high, possible popular account or bot", InterpretFollowRatio(f.FollowRatio))

	s.FollowerCount = 0
	f = ComputeFactors(s)
	assert.True(t, math.IsInf(f.FollowRatio, 1))
	assert.Equal(t, 0.5, scoreFollowRatio(f))
}

func TestZeroPostsYieldZeroRates(t *testing.T) {
	s := scenarioA()
	s.PostCount = 0

	f := ComputeFactors(s)
	assert.Equal(t, 0.0, f.RepostPercentage)
	assert.Equal(t, 0.0, f.InteractionRate)
	assert.Equal(t, 0.0, f.PostsPerDay)
}

func TestZeroFollowersYieldZeroEngagement(t *testing.T) {
	s := scenarioA()
	s.FollowerCount = 0

	f := ComputeFactors(s)
	assert.Equal(t, 0.0, f.EngagementRate)
	assert.Equal(t, 1.0, scoreEngagementRate(f))
}

func TestAccountAgeIsClamped(t *testing.T) {
	assert := assert.New(t)

	s := scenarioA()
	s.CreatedAt = s.CapturedAt
	f := ComputeFactors(s)
	assert.Equal(MinAccountAgeDays, f.AccountAgeDays)
	assert.InDelta(1000, f.PostsPerDay, 1e-9)

	// createdAt after capture (clock skew)
	s.CreatedAt = s.CapturedAt.Add(72 * time.Hour)
	f = ComputeFactors(s)
	assert.Equal(MinAccountAgeDays, f.AccountAgeDays)
	assert.False(math.IsInf(f.PostsPerDay, 0))

	s.CreatedAt = time.Time{}
	f = ComputeFactors(s)
	assert.Greater(f.AccountAgeDays, 30.0)
}

func TestVerificationLowersScore(t *testing.T) {
	base := scenarioA()
	base.Verification = entity.VerificationNone
	standard := base
	standard.Verification = entity.VerificationStandard
	org := base
	org.Verification = entity.VerificationOrganization

	none := Analyze(base)
	std := Analyze(standard)
	official := Analyze(org)

	assert.InDelta(t, none.RawScore-1.25, std.RawScore, 1e-9)
	assert.InDelta(t, none.RawScore-1.5, official.RawScore, 1e-9)
	assert.Less(t, official.BotProbability, none.BotProbability)
	assert.Less(t, official.BotProbability, std.BotProbability)
}

func TestScoringRuleBoundaries(t *testing.T) {
	tests := []struct {
		name string
		rule rule
		f    entity.FactorSet
		want float64
	}{
		{"ratio just below 0.01", scoreFollowRatio, entity.FactorSet{FollowRatio: 0.0099}, 1},
		{"ratio at 0.01", scoreFollowRatio, entity.FactorSet{FollowRatio: 0.01}, 0},
		{"ratio at 100", scoreFollowRatio, entity.FactorSet{FollowRatio: 100}, 0},
		{"ratio above 100", scoreFollowRatio, entity.FactorSet{FollowRatio: 100.1}, 0.5},
		{"age 29", scoreAccountAge, entity.FactorSet{AccountAgeDays: 29}, 1},
		{"age 30", scoreAccountAge, entity.FactorSet{AccountAgeDays: 30}, 0},
		{"posts 50", scorePostsPerDay, entity.FactorSet{PostsPerDay: 50}, 0.5},
		{"posts 51", scorePostsPerDay, entity.FactorSet{PostsPerDay: 51}, 1},
		{"posts 20", scorePostsPerDay, entity.FactorSet{PostsPerDay: 20}, 0},
		{"reposts 80", scoreRepostPercentage, entity.FactorSet{RepostPercentage: 80}, 0.5},
		{"reposts 81", scoreRepostPercentage, entity.FactorSet{RepostPercentage: 81}, 1},
		{"reposts 60", scoreRepostPercentage, entity.FactorSet{RepostPercentage: 60}, 0},
		{"interaction 4.9", scoreInteractionRate, entity.FactorSet{InteractionRate: 4.9}, 1},
		{"interaction 5", scoreInteractionRate, entity.FactorSet{InteractionRate: 5}, 0.5},
		{"interaction 10", scoreInteractionRate, entity.FactorSet{InteractionRate: 10}, 0},
		{"engagement 0.05", scoreEngagementRate, entity.FactorSet{EngagementRate: 0.05}, 1},
		{"engagement 0.1", scoreEngagementRate, entity.FactorSet{EngagementRate: 0.1}, 0.5},
		{"engagement 5", scoreEngagementRate, entity.FactorSet{EngagementRate: 5}, 0},
		{"engagement 10", scoreEngagementRate, entity.FactorSet{EngagementRate: 10}, 0},
		{"engagement 11", scoreEngagementRate, entity.FactorSet{EngagementRate: 11}, -0.5},
		{"unverified", scoreVerification, entity.FactorSet{Verification: entity.VerificationNone}, 0},
		{"standard", scoreVerification, entity.FactorSet{Verification: entity.VerificationStandard}, -1.25},
		{"organization", scoreVerification, entity.FactorSet{Verification: entity.VerificationOrganization}, -1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule(tt.f))
		})
	}
}
