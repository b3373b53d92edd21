package dao

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

// HistoryMemory is an in-process HistoryRepository, used when no database is configured
type HistoryMemory struct {
	mu      sync.RWMutex
	records map[string]entity.HistoryRecord
}

// NewHistoryMemory creates an empty in-memory repository
func NewHistoryMemory() *HistoryMemory {
	return &HistoryMemory{records: make(map[string]entity.HistoryRecord)}
}

func (m *HistoryMemory) Save(_ context.Context, rec *entity.HistoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.records {
		if strings.EqualFold(existing.Handle, rec.Handle) && existing.CapturedAt.Equal(rec.CapturedAt) {
			rec.ID = id
			break
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	m.records[rec.ID] = *rec
	return nil
}

func (m *HistoryMemory) GetByID(_ context.Context, id string) (*entity.HistoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *HistoryMemory) List(_ context.Context, filter HistoryFilter, opts ListOptions) ([]entity.HistoryRecord, error) {
	m.mu.RLock()
	matched := m.match(filter)
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].AnalyzedAt.Equal(matched[j].AnalyzedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].AnalyzedAt.After(matched[j].AnalyzedAt)
	})

	if opts.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (m *HistoryMemory) Count(_ context.Context, filter HistoryFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.match(filter))), nil
}

func (m *HistoryMemory) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, rec := range m.records {
		if rec.AnalyzedAt.Before(cutoff) {
			delete(m.records, id)
			n++
		}
	}
	return n, nil
}

// match must be called with the lock held
func (m *HistoryMemory) match(filter HistoryFilter) []entity.HistoryRecord {
	var out []entity.HistoryRecord
	for _, rec := range m.records {
		if filter.Handle != "" && !strings.EqualFold(rec.Handle, filter.Handle) {
			continue
		}
		if filter.Since != nil && rec.AnalyzedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
