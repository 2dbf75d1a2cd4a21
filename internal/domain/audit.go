package domain

import (
	"time"

	"github.com/google/uuid"
)

// append-only record of game state transitions; UserID is empty when
// the transition was driven by the deadline watcher rather than a player
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	GameID    uuid.UUID              `db:"game_id" json:"game_id"`
	UserID    string                 `db:"user_id" json:"user_id,omitempty"`
	Action    string                 `db:"action" json:"action"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

const (
	AuditActionChallengeSent     = "challenge_sent"
	AuditActionChallengeAccepted = "challenge_accepted"
	AuditActionChallengeDeclined = "challenge_declined"
	AuditActionTrickProposed     = "trick_proposed"
	AuditActionResponseSubmitted = "response_submitted"
	AuditActionRoundResolved     = "round_resolved"
	AuditActionGameForfeited     = "game_forfeited"
	AuditActionGuestLogin        = "guest_login"
	AuditActionTelegramLogin     = "telegram_login"
)
