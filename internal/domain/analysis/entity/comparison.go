package entity

// Outcome is the relative verdict of a comparison
type Outcome string

const (
	OutcomeAMoreLikelyReal Outcome = "a_more_likely_real"
	OutcomeBMoreLikelyReal Outcome = "b_more_likely_real"
	OutcomeInconclusive    Outcome = "inconclusive"
)

// ComparisonCell holds one side of a comparison table row
type ComparisonCell struct {
	Value Number `json:"value"`
	Text  string `json:"text"`
}

// ComparisonRow is a single metric shown side by side for both accounts
type ComparisonRow struct {
	Key   string         `json:"key"`
	Title string         `json:"title"`
	A     ComparisonCell `json:"a"`
	B     ComparisonCell `json:"b"`
}

// ComparisonResult is the outcome of comparing two distinct accounts
type ComparisonResult struct {
	A       ScoreResult     `json:"a"`
	B       ScoreResult     `json:"b"`
	Outcome Outcome         `json:"outcome"`
	Table   []ComparisonRow `json:"table"`
}

// MoreLikelyReal returns the side judged more likely real.
// The second return value is false when the comparison is inconclusive.
func (c *ComparisonResult) MoreLikelyReal() (ScoreResult, bool) {
	switch c.Outcome {
	case OutcomeAMoreLikelyReal:
		return c.A, true
	case OutcomeBMoreLikelyReal:
		return c.B, true
	}
	return ScoreResult{}, false
}

// MoreLikelyBot returns the side judged more likely a bot.
// The second return value is false when the comparison is inconclusive.
func (c *ComparisonResult) MoreLikelyBot() (ScoreResult, bool) {
	switch c.Outcome {
	case OutcomeAMoreLikelyReal:
		return c.B, true
	case OutcomeBMoreLikelyReal:
		return c.A, true
	}
	return ScoreResult{}, false
}
