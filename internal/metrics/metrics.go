package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

var analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "botradar_analyses_total",
	Help: "Number of accounts analyzed, by resulting label",
}, []string{"label"})

var comparisonsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "botradar_comparisons_total",
	Help: "Number of account comparisons, by outcome",
}, []string{"outcome"})

var botProbability = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "botradar_bot_probability",
	Help:    "Distribution of clamped bot probabilities",
	Buckets: []float64{0, 10, 25, 40, 50, 60, 75, 90, 100},
})

var upstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "botradar_upstream_errors_total",
	Help: "Number of failed profile lookups, by reason",
}, []string{"reason"})

var upstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "botradar_upstream_duration_seconds",
	Help:    "Duration of profile lookups",
	Buckets: prometheus.DefBuckets,
})

var historyPruned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "botradar_history_pruned_total",
	Help: "Number of history records removed by retention",
})

// Recorder records analysis metrics. The zero value is ready to use.
type Recorder struct{}

// ObserveAnalysis records a single scored account
func (Recorder) ObserveAnalysis(r entity.ScoreResult) {
	analysesTotal.WithLabelValues(r.Label.String()).Inc()
	botProbability.Observe(r.BotProbability)
}

// ObserveComparison records a comparison outcome
func (Recorder) ObserveComparison(c *entity.ComparisonResult) {
	comparisonsTotal.WithLabelValues(string(c.Outcome)).Inc()
}

// ObserveLookup records the duration of a profile lookup and its failure reason, if any
func (Recorder) ObserveLookup(start time.Time, reason string) {
	upstreamDuration.Observe(time.Since(start).Seconds())
	if reason != "" {
		upstreamErrors.WithLabelValues(reason).Inc()
	}
}

// ObservePruned records the number of history records removed
func (Recorder) ObservePruned(n int64) {
	if n > 0 {
		historyPruned.Add(float64(n))
	}
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
