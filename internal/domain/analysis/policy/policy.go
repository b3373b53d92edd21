package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vadim/bot-radar/internal/domain/analysis/engine"
	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
	"github.com/vadim/bot-radar/internal/domain/analysis/service"
)

// ProfileFetcher retrieves raw profile records from the social network
// This interface is defined here (consumer) not in the upstream package (provider)
type ProfileFetcher interface {
	GetUserByUsername(ctx context.Context, username string) (entity.RawProfile, error)
}

// Observer receives analysis events for metrics
type Observer interface {
	ObserveAnalysis(r entity.ScoreResult)
	ObserveComparison(c *entity.ComparisonResult)
	ObserveLookup(start time.Time, reason string)
}

type nopObserver struct{}

func (nopObserver) ObserveAnalysis(entity.ScoreResult)         {}
func (nopObserver) ObserveComparison(*entity.ComparisonResult) {}
func (nopObserver) ObserveLookup(time.Time, string)            {}

// Policy orchestrates analysis use-cases
type Policy struct {
	svc      *service.Service
	fetcher  ProfileFetcher // nil when no upstream is configured
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures the Policy
type Option func(*Policy)

// WithObserver sets the metrics observer
func WithObserver(o Observer) Option {
	return func(p *Policy) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithClock overrides the time used as the default capture time
func WithClock(now func() time.Time) Option {
	return func(p *Policy) {
		p.now = now
	}
}

// New creates a new analysis policy
func New(svc *service.Service, fetcher ProfileFetcher, logger *slog.Logger, opts ...Option) *Policy {
	p := &Policy{
		svc:      svc,
		fetcher:  fetcher,
		observer: nopObserver{},
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AnalysisOutput represents the result of analyzing one account
type AnalysisOutput struct {
	Report    entity.Report
	RecordID  string // empty when the analysis could not be recorded
	ReportURL string
}

// AnalyzeProfile fetches an account by profile URL or handle and scores it
func (p *Policy) AnalyzeProfile(ctx context.Context, ref string) (*AnalysisOutput, error) {
	handle, err := engine.ExtractHandle(ref)
	if err != nil {
		return nil, err
	}

	raw, err := p.fetch(ctx, handle)
	if err != nil {
		return nil, err
	}

	return p.analyze(ctx, raw), nil
}

// AnalyzeRaw scores a caller-supplied raw profile record
func (p *Policy) AnalyzeRaw(ctx context.Context, raw entity.RawProfile) (*AnalysisOutput, error) {
	return p.analyze(ctx, raw), nil
}

// CompareOutput represents the result of comparing two accounts
type CompareOutput struct {
	Comparison *entity.ComparisonResult
	Reports    [2]entity.Report
}

// CompareProfiles fetches two accounts concurrently and compares them
func (p *Policy) CompareProfiles(ctx context.Context, refs []string) (*CompareOutput, error) {
	if len(refs) != 2 {
		return nil, entity.ErrComparisonArity
	}

	var handles [2]string
	for i, ref := range refs {
		h, err := engine.ExtractHandle(ref)
		if err != nil {
			return nil, err
		}
		handles[i] = h
	}
	if strings.EqualFold(handles[0], handles[1]) {
		return nil, entity.ErrSameAccount
	}

	var raws [2]entity.RawProfile
	g, gctx := errgroup.WithContext(ctx)
	for i := range handles {
		i := i
		g.Go(func() error {
			raw, err := p.fetch(gctx, handles[i])
			if err != nil {
				return err
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return p.compare(ctx, raws)
}

// CompareRaw compares two caller-supplied raw profile records
func (p *Policy) CompareRaw(ctx context.Context, raws []entity.RawProfile) (*CompareOutput, error) {
	if len(raws) != 2 {
		return nil, entity.ErrComparisonArity
	}
	return p.compare(ctx, [2]entity.RawProfile{raws[0], raws[1]})
}

// History lists previously recorded analyses
func (p *Policy) History(ctx context.Context, in service.ListInput) (*service.ListOutput, error) {
	return p.svc.List(ctx, in)
}

// GetAnalysis retrieves a recorded analysis by ID
func (p *Policy) GetAnalysis(ctx context.Context, id string) (*entity.HistoryRecord, error) {
	return p.svc.GetByID(ctx, id)
}

// PruneHistory removes analyses older than maxAge
func (p *Policy) PruneHistory(ctx context.Context, maxAge time.Duration) (int64, error) {
	return p.svc.Prune(ctx, maxAge)
}

func (p *Policy) compare(ctx context.Context, raws [2]entity.RawProfile) (*CompareOutput, error) {
	now := p.now()
	a := engine.Normalize(raws[0], now)
	b := engine.Normalize(raws[1], now)

	cmp, err := engine.Compare(a, b)
	if err != nil {
		return nil, err
	}
	p.observer.ObserveComparison(cmp)

	out := &CompareOutput{
		Comparison: cmp,
		Reports: [2]entity.Report{
			engine.Describe(a, cmp.A),
			engine.Describe(b, cmp.B),
		},
	}
	for _, r := range out.Reports {
		p.observer.ObserveAnalysis(r.Result)
		p.record(ctx, r)
	}
	return out, nil
}

func (p *Policy) analyze(ctx context.Context, raw entity.RawProfile) *AnalysisOutput {
	snapshot := engine.Normalize(raw, p.now())
	report := engine.Describe(snapshot, engine.Analyze(snapshot))
	p.observer.ObserveAnalysis(report.Result)

	out := &AnalysisOutput{Report: report}
	if rec := p.record(ctx, report); rec != nil {
		out.RecordID = rec.Record.ID
		out.ReportURL = rec.ReportURL
	}
	return out
}

// record persists a report; failures are logged and do not fail the analysis
func (p *Policy) record(ctx context.Context, report entity.Report) *service.RecordOutput {
	if p.svc == nil {
		return nil
	}
	rec, err := p.svc.Record(ctx, report)
	if err != nil {
		p.logger.Warn("failed to record analysis",
			"handle", report.Snapshot.Handle,
			"error", err,
		)
		return nil
	}
	return rec
}

func (p *Policy) fetch(ctx context.Context, handle string) (entity.RawProfile, error) {
	if p.fetcher == nil {
		return nil, entity.ErrUpstreamNotConfigured
	}

	start := time.Now()
	raw, err := p.fetcher.GetUserByUsername(ctx, handle)
	p.observer.ObserveLookup(start, LookupReason(err))
	if err != nil {
		return nil, fmt.Errorf("fetching @%s: %w", handle, err)
	}
	return raw, nil
}

// LookupReason classifies a profile lookup error for metrics
func LookupReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, entity.ErrProfileNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrUpstreamRateLimited):
		return "rate_limited"
	case errors.Is(err, entity.ErrUpstreamUnauthorized):
		return "unauthorized"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "failure"
	}
}
