package entity

import "time"

// HistoryRecord is a previously computed analysis, keyed by handle and capture time
type HistoryRecord struct {
	ID             string    `json:"id"`
	Handle         string    `json:"handle"`
	DisplayName    string    `json:"display_name"`
	CapturedAt     time.Time `json:"captured_at"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
	BotProbability float64   `json:"bot_probability"`
	Label          Label     `json:"label"`
	Factors        FactorSet `json:"factors"`
	ReportKey      string    `json:"report_key,omitempty"`
}

// NewHistoryRecord builds a history record from a report
func NewHistoryRecord(r Report, analyzedAt time.Time) *HistoryRecord {
	return &HistoryRecord{
		Handle:         r.Snapshot.Handle,
		DisplayName:    r.Snapshot.DisplayName,
		CapturedAt:     r.Snapshot.CapturedAt,
		AnalyzedAt:     analyzedAt,
		BotProbability: r.Result.BotProbability,
		Label:          r.Result.Label,
		Factors:        r.Result.Factors,
	}
}
