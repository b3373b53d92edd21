package engine

import (
	"math"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

// rule scores a single factor and returns its signed contribution
type rule func(f entity.FactorSet) float64

// rules holds the independent scoring rules. The probability divisor is the
// number of rules.
var rules = []rule{
	scoreFollowRatio,
	scoreAccountAge,
	scorePostsPerDay,
	scoreRepostPercentage,
	scoreInteractionRate,
	scoreVerification,
	scoreEngagementRate,
}

// Label thresholds on the clamped bot probability
const (
	likelyRealThreshold    = 25.0
	possiblyBotThreshold   = 50.0
	veryLikelyBotThreshold = 75.0
)

// Analyze scores a snapshot. It is pure: the same snapshot always yields an
// identical result and the snapshot is never modified.
func Analyze(s entity.AccountSnapshot) entity.ScoreResult {
	factors := ComputeFactors(s)
	raw := Score(factors)
	probability := Probability(raw)

	return entity.ScoreResult{
		Handle:          s.Handle,
		CapturedAt:      s.CapturedAt,
		BotProbability:  probability,
		RawScore:        raw,
		Label:           LabelFor(probability),
		Factors:         factors,
		Interpretations: Interpret(factors),
	}
}

// Score sums the contributions of every rule
func Score(f entity.FactorSet) float64 {
	var total float64
	for _, r := range rules {
		total += r(f)
	}
	return total
}

// Probability converts a raw score into a bot probability clamped to [0, 100]
func Probability(raw float64) float64 {
	p := raw / float64(len(rules)) * 100
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(math.Max(p, 0), 100)
}

// LabelFor maps a bot probability to its qualitative bucket
func LabelFor(probability float64) entity.Label {
	switch {
	case probability < likelyRealThreshold:
		return entity.LabelVeryLikelyReal
	case probability < possiblyBotThreshold:
		return entity.LabelLikelyReal
	case probability < veryLikelyBotThreshold:
		return entity.LabelPossiblyBot
	default:
		return entity.LabelVeryLikelyBot
	}
}

// scoreFollowRatio treats +Inf (follows nobody) like any ratio above 100
func scoreFollowRatio(f entity.FactorSet) float64 {
	switch {
	case f.FollowRatio < 0.01:
		return 1
	case f.FollowRatio > 100:
		return 0.5
	}
	return 0
}

func scoreAccountAge(f entity.FactorSet) float64 {
	if f.AccountAgeDays < 30 {
		return 1
	}
	return 0
}

func scorePostsPerDay(f entity.FactorSet) float64 {
	switch {
	case f.PostsPerDay > 50:
		return 1
	case f.PostsPerDay > 20:
		return 0.5
	}
	return 0
}

func scoreRepostPercentage(f entity.FactorSet) float64 {
	switch {
	case f.RepostPercentage > 80:
		return 1
	case f.RepostPercentage > 60:
		return 0.5
	}
	return 0
}

func scoreInteractionRate(f entity.FactorSet) float64 {
	switch {
	case f.InteractionRate < 5:
		return 1
	case f.InteractionRate < 10:
		return 0.5
	}
	return 0
}

// scoreVerification applies -1 for any verified tier plus a tier-specific extra
func scoreVerification(f entity.FactorSet) float64 {
	switch f.Verification {
	case entity.VerificationStandard:
		return -1 - 0.25
	case entity.VerificationOrganization:
		return -1 - 0.5
	}
	return 0
}

func scoreEngagementRate(f entity.FactorSet) float64 {
	switch {
	case f.EngagementRate < 0.1:
		return 1
	case f.EngagementRate < 1:
		return 0.5
	case f.EngagementRate > 10:
		return -0.5
	}
	return 0
}
