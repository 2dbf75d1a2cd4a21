package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"skate_app/internal/domain"
	"skate_app/internal/service"

	"github.com/google/uuid"
)

// auditLogStore keeps audit entries in memory. Reads serve them back
// in insertion order and record the limit they were asked for.
type auditLogStore struct {
	mu        sync.Mutex
	createErr error
	entries   []domain.AuditLog
	lastLimit int
}

func (s *auditLogStore) Create(ctx context.Context, entry *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *auditLogStore) ByGame(ctx context.Context, gameID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	var out []domain.AuditLog
	for _, e := range s.entries {
		if e.GameID == gameID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *auditLogStore) ByUser(ctx context.Context, userID string, limit int) ([]domain.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	var out []domain.AuditLog
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *auditLogStore) Recent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	out := make([]domain.AuditLog, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *auditLogStore) byAction(action string) []domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AuditLog
	for _, e := range s.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func TestAuditService_LogRecordsEntries(t *testing.T) {
	store := &auditLogStore{}
	audit := service.NewAuditService(store)
	ctx := context.Background()
	gameID := uuid.New()

	audit.Log(ctx, gameID, "A", domain.AuditActionTrickProposed, map[string]interface{}{"trick": "kickflip"})
	audit.LogWithRequest(ctx, uuid.Nil, "B", domain.AuditActionGuestLogin, "10.0.0.1", "test-agent", nil)

	entries, err := audit.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].GameID != gameID || entries[0].Action != domain.AuditActionTrickProposed {
		t.Fatalf("entry = %+v, want the proposed trick", entries[0])
	}
	if entries[0].Details["trick"] != "kickflip" {
		t.Fatalf("details = %+v, want the trick name", entries[0].Details)
	}
	if entries[1].IP != "10.0.0.1" || entries[1].UserAgent != "test-agent" {
		t.Fatalf("request info = %+v, want ip and user agent kept", entries[1])
	}
}

func TestAuditService_WriteFailureIsSwallowed(t *testing.T) {
	store := &auditLogStore{createErr: errors.New("db down")}
	audit := service.NewAuditService(store)

	audit.Log(context.Background(), uuid.New(), "A", domain.AuditActionChallengeSent, nil)

	if got := len(store.byAction(domain.AuditActionChallengeSent)); got != 0 {
		t.Fatalf("entries = %d, want none after a failed write", got)
	}
}

func TestAuditService_TrailQueries(t *testing.T) {
	store := &auditLogStore{}
	audit := service.NewAuditService(store)
	ctx := context.Background()

	g1, g2 := uuid.New(), uuid.New()
	audit.Log(ctx, g1, "A", domain.AuditActionChallengeSent, nil)
	audit.Log(ctx, g1, "B", domain.AuditActionChallengeAccepted, nil)
	audit.Log(ctx, g2, "A", domain.AuditActionChallengeSent, nil)

	byGame, err := audit.GameTrail(ctx, g1, 10)
	if err != nil {
		t.Fatalf("game trail: %v", err)
	}
	if len(byGame) != 2 {
		t.Fatalf("game trail = %+v, want both entries of the first game", byGame)
	}
	if store.lastLimit != 10 {
		t.Fatalf("limit = %d, want 10 passed through", store.lastLimit)
	}

	byUser, err := audit.UserTrail(ctx, "A", 0)
	if err != nil {
		t.Fatalf("user trail: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("user trail = %+v, want A's two entries", byUser)
	}
	// a zero limit falls back to the page cap
	if store.lastLimit != 100 {
		t.Fatalf("limit = %d, want the cap", store.lastLimit)
	}

	recent, err := audit.Recent(ctx, 1000)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent = %+v, want all three entries", recent)
	}
	if store.lastLimit != 100 {
		t.Fatalf("limit = %d, want an oversized limit clamped to the cap", store.lastLimit)
	}
}
