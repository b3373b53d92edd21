package engine

import (
	"math"
	"time"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

// MinAccountAgeDays is the floor applied to account age before it is used as
// a divisor. It absorbs zero, negative and clock-skewed ages.
const MinAccountAgeDays = 1.0

const day = 24 * time.Hour

// ComputeFactors derives the numeric signals from a snapshot.
// Degenerate divisors resolve to defined values and never fail.
func ComputeFactors(s entity.AccountSnapshot) entity.FactorSet {
	followRatio := math.Inf(1)
	if s.FollowingCount > 0 {
		followRatio = float64(s.FollowerCount) / float64(s.FollowingCount)
	}

	ageDays := math.Max(float64(s.CapturedAt.Sub(s.CreatedAt))/float64(day), MinAccountAgeDays)

	var repostPct, interactionRate float64
	if s.PostCount > 0 {
		repostPct = float64(s.RepostCount) / float64(s.PostCount) * 100
		interactionRate = float64(s.MentionCount) / float64(s.PostCount) * 100
	}

	var engagementRate float64
	if s.FollowerCount > 0 {
		engagementRate = float64(s.LikeCount+s.RepostCount) / float64(s.FollowerCount) * 100
	}

	return entity.FactorSet{
		FollowRatio:      followRatio,
		AccountAgeDays:   ageDays,
		PostsPerDay:      float64(s.PostCount) / ageDays,
		RepostPercentage: repostPct,
		InteractionRate:  interactionRate,
		EngagementRate:   engagementRate,
		Verification:     s.Verification,
	}
}

// LikesPerPost is shown in comparisons but not scored. Zero posts yield 0.
func LikesPerPost(s entity.AccountSnapshot) float64 {
	if s.PostCount <= 0 {
		return 0
	}
	return float64(s.LikeCount) / float64(s.PostCount)
}
