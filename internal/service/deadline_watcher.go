package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"skate_app/internal/logger"
)

// DeadlineWatcher periodically forfeits games whose turn deadline has
// passed and sends warnings for games that are about to expire.
type DeadlineWatcher struct {
	games    *GameService
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

// NewDeadlineWatcher creates a watcher that runs every interval.
func NewDeadlineWatcher(games *GameService, interval time.Duration) *DeadlineWatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DeadlineWatcher{
		games:    games,
		interval: interval,
		log:      logger.With("component", "deadline_watcher"),
		stop:     make(chan struct{}),
	}
}

// Start runs the watch loop until Stop is called.
func (w *DeadlineWatcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("deadline watcher started", "interval", w.interval)

	// first pass immediately, so restarts do not wait a full interval
	w.runOnce()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce()
		case <-w.stop:
			w.log.Info("deadline watcher stopped")
			return
		}
	}
}

// Stop stops the watcher.
func (w *DeadlineWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stop)
		w.running = false
	}
}

// runOnce performs a single forfeit-and-warn pass.
func (w *DeadlineWatcher) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	forfeited, err := w.games.ForfeitExpiredGames(ctx)
	if err != nil {
		w.log.Error("forfeit pass failed", "error", err)
	}
	if forfeited > 0 {
		w.log.Info("forfeited expired games", "count", forfeited)
	}

	warned, err := w.games.NotifyDeadlineWarnings(ctx)
	if err != nil {
		w.log.Error("warning pass failed", "error", err)
	}
	if warned > 0 {
		w.log.Info("deadline warnings sent", "count", warned)
	}
}
