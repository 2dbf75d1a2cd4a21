package repository

import (
	"context"
	"encoding/json"

	"skate_app/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository persists the audit trail and reads it back when a
// dispute needs a game's history.
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	// auth events carry no game; write NULL instead of the zero uuid
	var gameID interface{}
	if entry.GameID != uuid.Nil {
		gameID = entry.GameID
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_logs (game_id, user_id, action, details, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, gameID, entry.UserID, entry.Action, detailsJSON, entry.IP, entry.UserAgent)
	return err
}

// ByGame returns a game's trail, newest first.
func (r *AuditRepository) ByGame(ctx context.Context, gameID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, user_id, action, details, ip, user_agent, created_at
		FROM audit_logs
		WHERE game_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

// ByUser returns every entry a user appears in, newest first.
func (r *AuditRepository) ByUser(ctx context.Context, userID string, limit int) ([]domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, user_id, action, details, ip, user_agent, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

// Recent returns the tail of the whole trail, newest first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, user_id, action, details, ip, user_agent, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]domain.AuditLog, error) {
	var entries []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		var detailsJSON []byte
		// a NULL game_id scans as the zero uuid
		if err := rows.Scan(&entry.ID, &entry.GameID, &entry.UserID, &entry.Action,
			&detailsJSON, &entry.IP, &entry.UserAgent, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil {
			entry.Details = make(map[string]interface{})
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
