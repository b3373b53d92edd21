package dao

import (
	"context"
	"time"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

// HistoryFilter contains filters for listing analysis history
type HistoryFilter struct {
	Handle string // empty means all accounts
	Since  *time.Time
}

// ListOptions contains pagination options
type ListOptions struct {
	Limit  int
	Offset int
}

// HistoryRepository stores previously computed analyses keyed by handle and capture time
type HistoryRepository interface {
	// Save inserts a record, replacing an existing one with the same handle and capture time
	Save(ctx context.Context, rec *entity.HistoryRecord) error

	// GetByID retrieves a record by its ID, returning nil when absent
	GetByID(ctx context.Context, id string) (*entity.HistoryRecord, error)

	// List retrieves records newest first
	List(ctx context.Context, filter HistoryFilter, opts ListOptions) ([]entity.HistoryRecord, error)

	// Count returns the number of records matching the filter
	Count(ctx context.Context, filter HistoryFilter) (int64, error)

	// DeleteOlderThan removes records analyzed before the cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
