package engine

import "github.com/vadim/bot-radar/internal/domain/analysis/entity"

// The descriptive thresholds below are deliberately kept apart from the
// scoring rules in scoring.go; the two tables use different cut points.

// Interpret maps every factor value to its qualitative bucket
func Interpret(f entity.FactorSet) map[entity.Factor]string {
	return map[entity.Factor]string{
		entity.FactorFollowRatio:      InterpretFollowRatio(f.FollowRatio),
		entity.FactorAccountAge:       InterpretAccountAge(f.AccountAgeDays),
		entity.FactorPostsPerDay:      InterpretPostsPerDay(f.PostsPerDay),
		entity.FactorRepostPercentage: InterpretRepostPercentage(f.RepostPercentage),
		entity.FactorInteractionRate:  InterpretInteractionRate(f.InteractionRate),
		entity.FactorVerification:     InterpretVerification(f.Verification),
		entity.FactorEngagementRate:   InterpretEngagementRate(f.EngagementRate),
	}
}

func InterpretFollowRatio(ratio float64) string {
	switch {
	case ratio < 0.01:
		return "very low, typical of bots"
	case ratio < 0.1:
		return "low, possible bot"
	case ratio > 100:
		return "very high, possible popular account or bot"
	}
	return "normal"
}

func InterpretAccountAge(days float64) string {
	switch {
	case days < 30:
		return "very new account, possible bot"
	case days < 180:
		return "relatively new account"
	}
	return "established account"
}

func InterpretPostsPerDay(postsPerDay float64) string {
	switch {
	case postsPerDay > 50:
		return "extremely high, likely bot"
	case postsPerDay > 20:
		return "high, possible bot or very active user"
	case postsPerDay < 0.1:
		return "very low, inactive or dormant-bot account"
	}
	return "normal"
}

func InterpretRepostPercentage(pct float64) string {
	switch {
	case pct > 80:
		return "very high, typical of bots"
	case pct > 60:
		return "high, possible bot"
	case pct < 10:
		return "very low, likely original content"
	}
	return "normal"
}

func InterpretInteractionRate(rate float64) string {
	switch {
	case rate < 5:
		return "very low, possible bot"
	case rate < 10:
		return "low, possible bot or low-interaction user"
	case rate > 50:
		return "very high, highly interactive user"
	}
	return "normal"
}

func InterpretVerification(v entity.Verification) string {
	switch v {
	case entity.VerificationStandard:
		return "standard-verified, may be real or notable"
	case entity.VerificationOrganization:
		return "officially verified, highly likely real and notable"
	}
	return "unverified, as most users are"
}

// InterpretEngagementRate falls through to the top bucket for anything at or
// above 10, including +Inf. NaN compares false everywhere and lands there too.
func InterpretEngagementRate(rate float64) string {
	switch {
	case rate < 0.1:
		return "very low, possible bot or inactive"
	case rate < 1:
		return "low engagement"
	case rate < 3:
		return "normal"
	case rate < 10:
		return "high engagement"
	}
	return "very high, influential account"
}
