package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vadim/bot-radar/internal/domain/analysis/dao"
	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
	"github.com/vadim/bot-radar/internal/storage"
)

// ReportStore archives rendered reports
type ReportStore interface {
	Store(ctx context.Context, report entity.Report) (*storage.StoredReport, error)
	Delete(ctx context.Context, key string) error
}

// Service handles analysis history and report archiving
type Service struct {
	repo    dao.HistoryRepository
	reports ReportStore // optional
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Service
type Option func(*Service)

// WithReportStore enables archiving of full reports
func WithReportStore(store ReportStore) Option {
	return func(s *Service) {
		s.reports = store
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a new analysis service
func New(repo dao.HistoryRepository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordOutput describes where a report was recorded
type RecordOutput struct {
	Record    *entity.HistoryRecord
	ReportURL string
}

// Record archives the report (when a store is configured) and saves a history record
func (s *Service) Record(ctx context.Context, report entity.Report) (*RecordOutput, error) {
	rec := entity.NewHistoryRecord(report, s.now())
	out := &RecordOutput{Record: rec}

	if s.reports != nil {
		stored, err := s.reports.Store(ctx, report)
		if err != nil {
			return nil, fmt.Errorf("archiving report: %w", err)
		}
		rec.ReportKey = stored.Key
		out.ReportURL = stored.URL
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		// Don't leave an orphaned report behind
		if rec.ReportKey != "" {
			if delErr := s.reports.Delete(ctx, rec.ReportKey); delErr != nil {
				s.logger.Warn("failed to delete orphaned report", "key", rec.ReportKey, "error", delErr)
			}
		}
		return nil, fmt.Errorf("saving history record: %w", err)
	}

	return out, nil
}

// GetByID retrieves a history record by ID
func (s *Service) GetByID(ctx context.Context, id string) (*entity.HistoryRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting history record: %w", err)
	}
	if rec == nil {
		return nil, entity.ErrAnalysisNotFound
	}
	return rec, nil
}

// ListInput represents input for listing history
type ListInput struct {
	Handle string
	Since  *time.Time
	Limit  int
	Offset int
}

// ListOutput represents output from listing history
type ListOutput struct {
	Records []entity.HistoryRecord
	Total   int64
}

// List retrieves history records newest first
func (s *Service) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 50
	}

	filter := dao.HistoryFilter{
		Handle: in.Handle,
		Since:  in.Since,
	}

	records, err := s.repo.List(ctx, filter, dao.ListOptions{Limit: limit, Offset: in.Offset})
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("counting history: %w", err)
	}

	return &ListOutput{
		Records: records,
		Total:   total,
	}, nil
}

// Prune removes history records analyzed more than maxAge ago
func (s *Service) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.repo.DeleteOlderThan(ctx, s.now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	return n, nil
}
