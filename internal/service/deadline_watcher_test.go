package service_test

import (
	"context"
	"testing"
	"time"

	"skate_app/internal/domain"
	"skate_app/internal/service"
)

func TestDeadlineWatcher_ForfeitsExpiredGames(t *testing.T) {
	games, rec, clk := newTestService(t)

	g := activeGame(t, games)
	clk.Advance(25 * time.Hour)

	watcher := service.NewDeadlineWatcher(games, 10*time.Millisecond)
	go watcher.Start()
	defer watcher.Stop()

	waitFor(t, "watcher forfeit", func() bool {
		detail, err := games.GameByID(context.Background(), g.ID, "A")
		if err != nil {
			return false
		}
		return detail.Game.Status == domain.StatusForfeited
	})

	waitFor(t, "forfeit notifications", func() bool {
		return rec.count(domain.EventGameOver, "A") == 1 && rec.count(domain.EventGameOver, "B") == 1
	})
}

func TestDeadlineWatcher_StopIsIdempotent(t *testing.T) {
	games, _, _ := newTestService(t)

	watcher := service.NewDeadlineWatcher(games, 10*time.Millisecond)
	go watcher.Start()

	// give the first pass a moment to run
	time.Sleep(30 * time.Millisecond)

	watcher.Stop()
	watcher.Stop()
}

func TestDeadlineWatcher_WarnsBeforeDeadline(t *testing.T) {
	games, rec, clk := newTestService(t)

	_ = activeGame(t, games)
	clk.Advance(23*time.Hour + 30*time.Minute)

	watcher := service.NewDeadlineWatcher(games, 10*time.Millisecond)
	go watcher.Start()
	defer watcher.Stop()

	waitFor(t, "deadline warning", func() bool {
		return rec.count(domain.EventDeadlineWarning, "A") >= 1
	})
}
