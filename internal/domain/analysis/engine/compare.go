package engine

import (
	"strings"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

// Compare scores two distinct accounts and decides which one is more likely
// real. Equal probabilities are reported as inconclusive rather than broken
// in favour of either side.
func Compare(a, b entity.AccountSnapshot) (*entity.ComparisonResult, error) {
	if strings.EqualFold(a.Handle, b.Handle) {
		return nil, entity.ErrSameAccount
	}

	ra := Analyze(a)
	rb := Analyze(b)

	outcome := entity.OutcomeInconclusive
	switch {
	case ra.BotProbability < rb.BotProbability:
		outcome = entity.OutcomeAMoreLikelyReal
	case rb.BotProbability < ra.BotProbability:
		outcome = entity.OutcomeBMoreLikelyReal
	}

	return &entity.ComparisonResult{
		A:       ra,
		B:       rb,
		Outcome: outcome,
		Table:   comparisonTable(a, b, ra, rb),
	}, nil
}

func comparisonTable(a, b entity.AccountSnapshot, ra, rb entity.ScoreResult) []entity.ComparisonRow {
	fa, fb := ra.Factors, rb.Factors

	return []entity.ComparisonRow{
		percentRow("bot_probability", "Bot probability", ra.BotProbability, rb.BotProbability),
		fixedRow("follow_ratio", "Follower/following ratio", fa.FollowRatio, fb.FollowRatio, 2),
		fixedRow("posts_per_day", "Posts per day", fa.PostsPerDay, fb.PostsPerDay, 2),
		percentRow("repost_percentage", "Repost percentage", fa.RepostPercentage, fb.RepostPercentage),
		percentRow("interaction_rate", "Interaction rate (mentions/posts)", fa.InteractionRate, fb.InteractionRate),
		percentRow("engagement_rate", "Engagement rate", fa.EngagementRate, fb.EngagementRate),
		fixedRow("likes_per_post", "Likes per post", LikesPerPost(a), LikesPerPost(b), 2),
		fixedRow("account_age_days", "Account age (days)", fa.AccountAgeDays, fb.AccountAgeDays, 0),
		{
			Key:   "verification",
			Title: "Verification tier",
			A:     entity.ComparisonCell{Value: tierRank(fa.Verification), Text: VerificationText(fa.Verification)},
			B:     entity.ComparisonCell{Value: tierRank(fb.Verification), Text: VerificationText(fb.Verification)},
		},
		{
			Key:   "verified",
			Title: "Verified",
			A:     verifiedCell(fa.Verification),
			B:     verifiedCell(fb.Verification),
		},
	}
}

func fixedRow(key, title string, a, b float64, prec int) entity.ComparisonRow {
	return entity.ComparisonRow{
		Key:   key,
		Title: title,
		A:     entity.ComparisonCell{Value: entity.Number(a), Text: formatFixed(a, prec)},
		B:     entity.ComparisonCell{Value: entity.Number(b), Text: formatFixed(b, prec)},
	}
}

func percentRow(key, title string, a, b float64) entity.ComparisonRow {
	return entity.ComparisonRow{
		Key:   key,
		Title: title,
		A:     entity.ComparisonCell{Value: entity.Number(a), Text: formatPercent(a)},
		B:     entity.ComparisonCell{Value: entity.Number(b), Text: formatPercent(b)},
	}
}

func tierRank(v entity.Verification) entity.Number {
	switch v {
	case entity.VerificationStandard:
		return 1
	case entity.VerificationOrganization:
		return 2
	}
	return 0
}

func verifiedCell(v entity.Verification) entity.ComparisonCell {
	if v.IsVerified() {
		return entity.ComparisonCell{Value: 1, Text: "yes"}
	}
	return entity.ComparisonCell{Value: 0, Text: "no"}
}
