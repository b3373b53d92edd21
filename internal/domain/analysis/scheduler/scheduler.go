package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// HistoryPruner removes expired analysis history
type HistoryPruner interface {
	PruneHistory(ctx context.Context, maxAge time.Duration) (int64, error)
}

// PruneObserver receives the number of records removed per run
type PruneObserver interface {
	ObservePruned(n int64)
}

// Scheduler periodically enforces the history retention window
type Scheduler struct {
	pruner   HistoryPruner
	observer PruneObserver // optional
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// New creates a new retention scheduler
func New(pruner HistoryPruner, interval, maxAge time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pruner:   pruner,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// WithObserver sets an observer for prune results
func (s *Scheduler) WithObserver(o PruneObserver) *Scheduler {
	s.observer = o
	return s
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("retention scheduler started", "interval", s.interval, "max_age", s.maxAge)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("retention scheduler stopped")
}

// run is the main scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.process(ctx)

	for {
		select {
		case <-ticker.C:
			s.process(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) process(ctx context.Context) {
	s.logger.Debug("pruning analysis history")

	n, err := s.pruner.PruneHistory(ctx, s.maxAge)
	if err != nil {
		s.logger.Error("failed to prune analysis history", "error", err)
		return
	}
	if s.observer != nil {
		s.observer.ObservePruned(n)
	}
	if n > 0 {
		s.logger.Info("pruned analysis history", "removed", n)
	}
}
