package entity

import (
	"fmt"
	"time"
)

// Factor names one of the seven scored signals
type Factor string

const (
	FactorFollowRatio      Factor = "follow_ratio"
	FactorAccountAge       Factor = "account_age_days"
	FactorPostsPerDay      Factor = "posts_per_day"
	FactorRepostPercentage Factor = "repost_percentage"
	FactorInteractionRate  Factor = "interaction_rate"
	FactorVerification     Factor = "verification"
	FactorEngagementRate   Factor = "engagement_rate"
)

// Factors lists every scored factor in display order
var Factors = []Factor{
	FactorFollowRatio,
	FactorAccountAge,
	FactorPostsPerDay,
	FactorRepostPercentage,
	FactorInteractionRate,
	FactorVerification,
	FactorEngagementRate,
}

// FactorSet holds the numeric signals derived from a snapshot.
// FollowRatio is +Inf when the account follows nobody.
type FactorSet struct {
	FollowRatio      float64      `json:"follow_ratio"`
	AccountAgeDays   float64      `json:"account_age_days"`
	PostsPerDay      float64      `json:"posts_per_day"`
	RepostPercentage float64      `json:"repost_percentage"`
	InteractionRate  float64      `json:"interaction_rate"`
	EngagementRate   float64      `json:"engagement_rate"`
	Verification     Verification `json:"verification"`
}

// Label is the qualitative bot-likelihood bucket. Values are ordered from
// most likely real to most likely bot.
type Label int

const (
	LabelVeryLikelyReal Label = iota
	LabelLikelyReal
	LabelPossiblyBot
	LabelVeryLikelyBot
)

var labelNames = map[Label]string{
	LabelVeryLikelyReal: "very likely real",
	LabelLikelyReal:     "likely real",
	LabelPossiblyBot:    "possibly a bot",
	LabelVeryLikelyBot:  "very likely a bot",
}

// String returns the human-readable label text
func (l Label) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// MarshalText implements encoding.TextMarshaler
func (l Label) MarshalText() ([]byte, error) {
	if _, ok := labelNames[l]; !ok {
		return nil, ErrInvalidLabel
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Label) UnmarshalText(b []byte) error {
	parsed, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLabel parses label text back into a Label
func ParseLabel(s string) (Label, error) {
	for l, name := range labelNames {
		if name == s {
			return l, nil
		}
	}
	return 0, ErrInvalidLabel
}

// ScoreResult is the outcome of analyzing a single snapshot
type ScoreResult struct {
	Handle          string            `json:"handle"`
	CapturedAt      time.Time         `json:"captured_at"`
	BotProbability  float64           `json:"bot_probability"`
	RawScore        float64           `json:"raw_score"`
	Label           Label             `json:"label"`
	Factors         FactorSet         `json:"factors"`
	Interpretations map[Factor]string `json:"interpretations"`
}

// Metric is one row of the per-factor diagnostic report
type Metric struct {
	Factor         Factor `json:"factor"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Value          string `json:"value"`
	Baseline       string `json:"baseline"`
	Interpretation string `json:"interpretation"`
}

// Report bundles a snapshot, its score and the display-ready diagnostics
type Report struct {
	Snapshot AccountSnapshot `json:"snapshot"`
	Result   ScoreResult     `json:"result"`
	Metrics  []Metric        `json:"metrics"`
	Activity Activity        `json:"activity"`
}
