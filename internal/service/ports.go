package service

import (
	"context"
	"time"

	"skate_app/internal/domain"

	"github.com/google/uuid"
)

// GameStore is the single persistence port for games and rounds.
// Lookups return (nil, nil) when the record does not exist.
// Implementations must serialize Transact calls touching the same
// game; that claim is the engine's only mutual exclusion.
type GameStore interface {
	CreateGame(ctx context.Context, g *domain.Game) error
	GetGame(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	ListRounds(ctx context.Context, gameID uuid.UUID) ([]domain.Round, error)
	ListByPlayer(ctx context.Context, userID string) ([]domain.Game, error)
	ListExpired(ctx context.Context, now time.Time) ([]domain.Game, error)
	ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]domain.Game, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)

	// Transact loads the game and its rounds under the claim, runs fn
	// and persists the registered changes. An error from fn discards
	// everything. Returns the committed game, or a NotFound error when
	// the game does not exist.
	Transact(ctx context.Context, gameID uuid.UUID, fn func(tx *GameTx) error) (*domain.Game, error)
}

// GameTx is the mutable view a Transact callback works on. The
// callback edits the game and rounds in place and registers round
// writes; nothing is persisted until it returns nil.
type GameTx struct {
	Game   *domain.Game
	Rounds []*domain.Round

	inserted []*domain.Round
	updated  []*domain.Round
}

// OpenRound returns the round still awaiting resolution, if any.
// A game has at most one.
func (tx *GameTx) OpenRound() *domain.Round {
	for _, r := range tx.Rounds {
		if r.Outcome == domain.OutcomePending {
			return r
		}
	}
	return nil
}

// Round returns the round with the given id, or nil.
func (tx *GameTx) Round(id uuid.UUID) *domain.Round {
	for _, r := range tx.Rounds {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// InsertRound registers a new round to be written on commit.
func (tx *GameTx) InsertRound(r *domain.Round) {
	tx.Rounds = append(tx.Rounds, r)
	tx.inserted = append(tx.inserted, r)
}

// UpdateRound registers an existing round to be written on commit.
func (tx *GameTx) UpdateRound(r *domain.Round) {
	tx.updated = append(tx.updated, r)
}

// Inserted exposes registered inserts to store adapters.
func (tx *GameTx) Inserted() []*domain.Round { return tx.inserted }

// Updated exposes registered updates to store adapters.
func (tx *GameTx) Updated() []*domain.Round { return tx.updated }

// Notifier delivers a notification best-effort. Implementations must
// respect the context deadline; the engine never waits on delivery.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// WarnGuard spaces repeated deadline warnings. Claim returns true when
// the caller won the right to warn for key; the claim expires after ttl.
type WarnGuard interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// AuditStore persists audit records and serves the trail back,
// newest first.
type AuditStore interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ByGame(ctx context.Context, gameID uuid.UUID, limit int) ([]domain.AuditLog, error)
	ByUser(ctx context.Context, userID string, limit int) ([]domain.AuditLog, error)
	Recent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}
