package repository

import (
	"context"
	"time"

	"skate_app/internal/domain"
	"skate_app/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameRepository persists games and rounds in Postgres. Row locks on
// the game row serialize concurrent transitions of the same game.
type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) CreateGame(ctx context.Context, g *domain.Game) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO games (id, player1_id, player2_id, status, current_turn,
			player1_letters, player2_letters, deadline_at, winner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, g.ID, g.Player1ID, g.Player2ID, g.Status, g.CurrentTurn,
		g.Player1Letters, g.Player2Letters, g.DeadlineAt, g.WinnerID, g.CreatedAt, g.UpdatedAt)
	return err
}

func (r *GameRepository) GetGame(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, player1_id, player2_id, status, current_turn,
			player1_letters, player2_letters, deadline_at, winner_id, created_at, updated_at
		FROM games
		WHERE id = $1
	`, id)
	return scanGame(row)
}

func (r *GameRepository) ListRounds(ctx context.Context, gameID uuid.UUID) ([]domain.Round, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, setter_id, trick, setter_video_url,
			responder_video_url, outcome, created_at, updated_at
		FROM rounds
		WHERE game_id = $1
		ORDER BY created_at
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRounds(rows)
}

func (r *GameRepository) ListByPlayer(ctx context.Context, userID string) ([]domain.Game, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, player1_id, player2_id, status, current_turn,
			player1_letters, player2_letters, deadline_at, winner_id, created_at, updated_at
		FROM games
		WHERE player1_id = $1 OR player2_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

func (r *GameRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Game, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, player1_id, player2_id, status, current_turn,
			player1_letters, player2_letters, deadline_at, winner_id, created_at, updated_at
		FROM games
		WHERE status = 'active' AND deadline_at < $1
		ORDER BY deadline_at
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

func (r *GameRepository) ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]domain.Game, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, player1_id, player2_id, status, current_turn,
			player1_letters, player2_letters, deadline_at, winner_id, created_at, updated_at
		FROM games
		WHERE status = 'active' AND deadline_at > $1 AND deadline_at <= $2
		ORDER BY deadline_at
	`, now, now.Add(window))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

func (r *GameRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT winner_id, COUNT(*) AS wins
		FROM games
		WHERE winner_id IS NOT NULL
		GROUP BY winner_id
		ORDER BY wins DESC, winner_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Wins); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Transact locks the game row, loads its rounds, runs fn and writes
// everything back in one transaction. An error from fn rolls back.
func (r *GameRepository) Transact(ctx context.Context, gameID uuid.UUID, fn func(gtx *service.GameTx) error) (*domain.Game, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	g, err := scanGame(tx.QueryRow(ctx, `
		SELECT id, player1_id, player2_id, status, current_turn,
			player1_letters, player2_letters, deadline_at, winner_id, created_at, updated_at
		FROM games
		WHERE id = $1
		FOR UPDATE
	`, gameID))
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.NotFound("Game not found")
	}

	rows, err := tx.Query(ctx, `
		SELECT id, game_id, setter_id, trick, setter_video_url,
			responder_video_url, outcome, created_at, updated_at
		FROM rounds
		WHERE game_id = $1
		ORDER BY created_at
	`, gameID)
	if err != nil {
		return nil, err
	}
	rounds, err := scanRoundPtrs(rows)
	if err != nil {
		return nil, err
	}

	gtx := &service.GameTx{Game: g, Rounds: rounds}
	if err := fn(gtx); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE games
		SET status = $2, current_turn = $3, player1_letters = $4, player2_letters = $5,
			deadline_at = $6, winner_id = $7, updated_at = $8
		WHERE id = $1
	`, g.ID, g.Status, g.CurrentTurn, g.Player1Letters, g.Player2Letters,
		g.DeadlineAt, g.WinnerID, g.UpdatedAt); err != nil {
		return nil, err
	}

	for _, rd := range gtx.Inserted() {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rounds (id, game_id, setter_id, trick, setter_video_url,
				responder_video_url, outcome, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, rd.ID, rd.GameID, rd.SetterID, rd.Trick, rd.SetterVideoURL,
			rd.ResponderVideoURL, rd.Outcome, rd.CreatedAt, rd.UpdatedAt); err != nil {
			return nil, err
		}
	}
	for _, rd := range gtx.Updated() {
		if _, err := tx.Exec(ctx, `
			UPDATE rounds
			SET responder_video_url = $2, outcome = $3, updated_at = $4
			WHERE id = $1
		`, rd.ID, rd.ResponderVideoURL, rd.Outcome, rd.UpdatedAt); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	if err := row.Scan(
		&g.ID, &g.Player1ID, &g.Player2ID, &g.Status, &g.CurrentTurn,
		&g.Player1Letters, &g.Player2Letters, &g.DeadlineAt, &g.WinnerID,
		&g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func scanGames(rows pgx.Rows) ([]domain.Game, error) {
	var games []domain.Game
	for rows.Next() {
		var g domain.Game
		if err := rows.Scan(
			&g.ID, &g.Player1ID, &g.Player2ID, &g.Status, &g.CurrentTurn,
			&g.Player1Letters, &g.Player2Letters, &g.DeadlineAt, &g.WinnerID,
			&g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func scanRounds(rows pgx.Rows) ([]domain.Round, error) {
	var rounds []domain.Round
	for rows.Next() {
		var rd domain.Round
		if err := rows.Scan(
			&rd.ID, &rd.GameID, &rd.SetterID, &rd.Trick, &rd.SetterVideoURL,
			&rd.ResponderVideoURL, &rd.Outcome, &rd.CreatedAt, &rd.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rounds = append(rounds, rd)
	}
	return rounds, rows.Err()
}

func scanRoundPtrs(rows pgx.Rows) ([]*domain.Round, error) {
	defer rows.Close()
	var rounds []*domain.Round
	for rows.Next() {
		var rd domain.Round
		if err := rows.Scan(
			&rd.ID, &rd.GameID, &rd.SetterID, &rd.Trick, &rd.SetterVideoURL,
			&rd.ResponderVideoURL, &rd.Outcome, &rd.CreatedAt, &rd.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rounds = append(rounds, &rd)
	}
	return rounds, rows.Err()
}
