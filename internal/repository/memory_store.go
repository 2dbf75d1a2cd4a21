package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"skate_app/internal/domain"
	"skate_app/internal/service"

	"github.com/google/uuid"
)

// MemoryStore keeps games and rounds in process memory. It backs
// development runs without a database and the test suite. Values are
// cloned on the way in and out, so callers never share memory with
// the store; the store mutex serializes transactions.
type MemoryStore struct {
	mu     sync.Mutex
	games  map[uuid.UUID]*domain.Game
	rounds map[uuid.UUID][]*domain.Round
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:  make(map[uuid.UUID]*domain.Game),
		rounds: make(map[uuid.UUID][]*domain.Round),
	}
}

func (s *MemoryStore) CreateGame(ctx context.Context, g *domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = cloneGame(g)
	return nil
}

func (s *MemoryStore) GetGame(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, nil
	}
	return cloneGame(g), nil
}

func (s *MemoryStore) ListRounds(ctx context.Context, gameID uuid.UUID) ([]domain.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Round
	for _, r := range s.rounds[gameID] {
		out = append(out, *cloneRound(r))
	}
	return out, nil
}

func (s *MemoryStore) ListByPlayer(ctx context.Context, userID string) ([]domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Game
	for _, g := range s.games {
		if g.HasPlayer(userID) {
			out = append(out, *cloneGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *MemoryStore) ListExpired(ctx context.Context, now time.Time) ([]domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Game
	for _, g := range s.games {
		if g.Status == domain.StatusActive && g.DeadlineAt != nil && g.DeadlineAt.Before(now) {
			out = append(out, *cloneGame(g))
		}
	}
	sortByDeadline(out)
	return out, nil
}

func (s *MemoryStore) ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until := now.Add(window)
	var out []domain.Game
	for _, g := range s.games {
		if g.Status != domain.StatusActive || g.DeadlineAt == nil {
			continue
		}
		if g.DeadlineAt.After(now) && !g.DeadlineAt.After(until) {
			out = append(out, *cloneGame(g))
		}
	}
	sortByDeadline(out)
	return out, nil
}

func (s *MemoryStore) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wins := make(map[string]int)
	for _, g := range s.games {
		if g.WinnerID != nil {
			wins[*g.WinnerID]++
		}
	}
	entries := make([]domain.LeaderboardEntry, 0, len(wins))
	for userID, n := range wins {
		entries = append(entries, domain.LeaderboardEntry{UserID: userID, Wins: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Transact runs fn on a private copy of the game and its rounds and
// swaps the copy in on success. The store mutex is held throughout,
// which is the memory equivalent of the row lock.
func (s *MemoryStore) Transact(ctx context.Context, gameID uuid.UUID, fn func(gtx *service.GameTx) error) (*domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.games[gameID]
	if !ok {
		return nil, domain.NotFound("Game not found")
	}

	g := cloneGame(stored)
	rounds := make([]*domain.Round, 0, len(s.rounds[gameID]))
	for _, r := range s.rounds[gameID] {
		rounds = append(rounds, cloneRound(r))
	}

	gtx := &service.GameTx{Game: g, Rounds: rounds}
	if err := fn(gtx); err != nil {
		return nil, err
	}

	s.games[gameID] = cloneGame(g)
	for _, rd := range gtx.Inserted() {
		s.rounds[gameID] = append(s.rounds[gameID], cloneRound(rd))
	}
	for _, rd := range gtx.Updated() {
		for i, existing := range s.rounds[gameID] {
			if existing.ID == rd.ID {
				s.rounds[gameID][i] = cloneRound(rd)
				break
			}
		}
	}
	return g, nil
}

func sortByDeadline(games []domain.Game) {
	sort.Slice(games, func(i, j int) bool {
		return games[i].DeadlineAt.Before(*games[j].DeadlineAt)
	})
}

func cloneGame(g *domain.Game) *domain.Game {
	c := *g
	if g.CurrentTurn != nil {
		v := *g.CurrentTurn
		c.CurrentTurn = &v
	}
	if g.DeadlineAt != nil {
		v := *g.DeadlineAt
		c.DeadlineAt = &v
	}
	if g.WinnerID != nil {
		v := *g.WinnerID
		c.WinnerID = &v
	}
	return &c
}

func cloneRound(r *domain.Round) *domain.Round {
	c := *r
	if r.ResponderVideoURL != nil {
		v := *r.ResponderVideoURL
		c.ResponderVideoURL = &v
	}
	return &c
}
