package service

import (
	"context"

	"skate_app/internal/domain"
	"skate_app/internal/logger"

	"github.com/google/uuid"
)

// trail reads are paged; a missing or oversized limit falls back here
const maxTrailPage = 100

// AuditService records game state transitions and serves the trail
// for dispute review. Write failures are logged and swallowed: a lost
// audit row must never fail a player's move.
type AuditService struct {
	store AuditStore
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

// Log writes one audit entry.
func (s *AuditService) Log(ctx context.Context, gameID uuid.UUID, userID, action string, details map[string]interface{}) {
	entry := &domain.AuditLog{
		GameID:  gameID,
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		logger.Error("audit write failed", "error", err, "action", action, "game_id", gameID)
	}
}

// LogWithRequest writes one audit entry with request info attached.
func (s *AuditService) LogWithRequest(ctx context.Context, gameID uuid.UUID, userID, action, ip, userAgent string, details map[string]interface{}) {
	entry := &domain.AuditLog{
		GameID:    gameID,
		UserID:    userID,
		Action:    action,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		logger.Error("audit write failed", "error", err, "action", action, "game_id", gameID)
	}
}

// GameTrail returns a game's audit entries, newest first.
func (s *AuditService) GameTrail(ctx context.Context, gameID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	return s.store.ByGame(ctx, gameID, trailLimit(limit))
}

// UserTrail returns every entry a user appears in, newest first.
func (s *AuditService) UserTrail(ctx context.Context, userID string, limit int) ([]domain.AuditLog, error) {
	return s.store.ByUser(ctx, userID, trailLimit(limit))
}

// Recent returns the tail of the whole trail, newest first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	return s.store.Recent(ctx, trailLimit(limit))
}

func trailLimit(limit int) int {
	if limit <= 0 || limit > maxTrailPage {
		return maxTrailPage
	}
	return limit
}
