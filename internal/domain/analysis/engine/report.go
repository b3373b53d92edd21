package engine

import (
	"math"
	"strconv"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

// Baseline values of a typical account, shown next to each factor
const (
	BaselineFollowRatio      = 1.2
	BaselineAccountAgeDays   = 730
	BaselinePostsPerDay      = 3
	BaselineRepostPercentage = 30
	BaselineInteractionRate  = 15
)

type metricInfo struct {
	title       string
	description string
}

var metricInfos = map[entity.Factor]metricInfo{
	entity.FactorFollowRatio: {
		title:       "Follower/following ratio",
		description: "Proportion between followers and followed accounts. A very low or very high ratio can indicate a bot.",
	},
	entity.FactorAccountAge: {
		title:       "Account age (days)",
		description: "Very new accounts are more likely to be bots.",
	},
	entity.FactorPostsPerDay: {
		title:       "Posts per day",
		description: "A very high posting frequency can indicate automated activity.",
	},
	entity.FactorRepostPercentage: {
		title:       "Repost percentage",
		description: "A high share of reposts compared to original posts can indicate bot behaviour.",
	},
	entity.FactorInteractionRate: {
		title:       "Interaction rate (mentions/posts)",
		description: "A low interaction rate can indicate automated behaviour or a lack of genuine engagement.",
	},
	entity.FactorVerification: {
		title:       "Verification status",
		description: "Whether the account is verified and which kind of verification it holds.",
	},
	entity.FactorEngagementRate: {
		title:       "Engagement rate",
		description: "How much followers interact with the account's content.",
	},
}

// Describe builds the full diagnostic report for an analyzed snapshot
func Describe(s entity.AccountSnapshot, r entity.ScoreResult) entity.Report {
	f := r.Factors
	values := map[entity.Factor][2]string{
		entity.FactorFollowRatio:      {formatFixed(f.FollowRatio, 2), formatFixed(BaselineFollowRatio, 2)},
		entity.FactorAccountAge:       {formatFixed(f.AccountAgeDays, 0), formatFixed(BaselineAccountAgeDays, 0)},
		entity.FactorPostsPerDay:      {formatFixed(f.PostsPerDay, 2), formatFixed(BaselinePostsPerDay, 0)},
		entity.FactorRepostPercentage: {formatPercent(f.RepostPercentage), formatFixed(BaselineRepostPercentage, 0) + "%"},
		entity.FactorInteractionRate:  {formatPercent(f.InteractionRate), formatFixed(BaselineInteractionRate, 0) + "%"},
		entity.FactorVerification:     {VerificationText(f.Verification), "varies"},
		entity.FactorEngagementRate:   {formatPercent(f.EngagementRate), "1-3%"},
	}

	metrics := make([]entity.Metric, 0, len(entity.Factors))
	for _, factor := range entity.Factors {
		info := metricInfos[factor]
		metrics = append(metrics, entity.Metric{
			Factor:         factor,
			Title:          info.title,
			Description:    info.description,
			Value:          values[factor][0],
			Baseline:       values[factor][1],
			Interpretation: r.Interpretations[factor],
		})
	}

	return entity.Report{
		Snapshot: s,
		Result:   r,
		Metrics:  metrics,
		Activity: s.Activity(),
	}
}

// VerificationText is the display value of a verification tier
func VerificationText(v entity.Verification) string {
	switch v {
	case entity.VerificationStandard:
		return "standard verification"
	case entity.VerificationOrganization:
		return "official verification"
	}
	return "not verified"
}

func formatFixed(v float64, prec int) string {
	switch {
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case math.IsNaN(v):
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func formatPercent(v float64) string {
	return formatFixed(v, 2) + "%"
}
