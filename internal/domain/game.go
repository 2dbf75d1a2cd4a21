package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type GameStatus string

const (
	StatusPending   GameStatus = "pending"
	StatusActive    GameStatus = "active"
	StatusCompleted GameStatus = "completed"
	StatusDeclined  GameStatus = "declined"
	StatusForfeited GameStatus = "forfeited"
)

// Terminal reports whether the status can never change again.
func (s GameStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusDeclined, StatusForfeited:
		return true
	}
	return false
}

type RoundOutcome string

const (
	OutcomePending RoundOutcome = "pending"
	OutcomeLanded  RoundOutcome = "landed"
	OutcomeMissed  RoundOutcome = "missed"
)

// collecting all five letters of S.K.A.T.E. eliminates a player
const MaxLetters = 5

// a trick battle between two players; player1 is the challenger
type Game struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Player1ID      string     `db:"player1_id" json:"player1Id"`
	Player2ID      string     `db:"player2_id" json:"player2Id"`
	Status         GameStatus `db:"status" json:"status"`
	CurrentTurn    *string    `db:"current_turn" json:"currentTurn"`
	Player1Letters int        `db:"player1_letters" json:"player1Letters"`
	Player2Letters int        `db:"player2_letters" json:"player2Letters"`
	DeadlineAt     *time.Time `db:"deadline_at" json:"deadlineAt"`
	WinnerID       *string    `db:"winner_id" json:"winnerId"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// HasPlayer reports whether userID participates in the game.
func (g *Game) HasPlayer(userID string) bool {
	return userID == g.Player1ID || userID == g.Player2ID
}

// OtherPlayer returns the participant that is not userID.
func (g *Game) OtherPlayer(userID string) string {
	if userID == g.Player1ID {
		return g.Player2ID
	}
	return g.Player1ID
}

// Letters returns the letter count of a participant.
func (g *Game) Letters(userID string) int {
	if userID == g.Player1ID {
		return g.Player1Letters
	}
	return g.Player2Letters
}

// AddLetter assigns one penalty letter and returns the new count.
func (g *Game) AddLetter(userID string) int {
	if userID == g.Player1ID {
		g.Player1Letters++
		return g.Player1Letters
	}
	g.Player2Letters++
	return g.Player2Letters
}

// OnTurn reports whether userID currently holds the offense.
func (g *Game) OnTurn(userID string) bool {
	return g.CurrentTurn != nil && *g.CurrentTurn == userID
}

// LettersWord spells out collected letters, e.g. 3 -> "S.K.A".
func LettersWord(n int) string {
	const word = "SKATE"
	if n <= 0 {
		return ""
	}
	if n > len(word) {
		n = len(word)
	}
	return strings.Join(strings.Split(word[:n], ""), ".")
}

// one proposed trick and its response; at most one round per game
// is pending at any time
type Round struct {
	ID                uuid.UUID    `db:"id" json:"id"`
	GameID            uuid.UUID    `db:"game_id" json:"gameId"`
	SetterID          string       `db:"setter_id" json:"setterId"`
	Trick             string       `db:"trick" json:"trick"`
	SetterVideoURL    string       `db:"setter_video_url" json:"setterVideoUrl"`
	ResponderVideoURL *string      `db:"responder_video_url" json:"responderVideoUrl"`
	Outcome           RoundOutcome `db:"outcome" json:"outcome"`
	CreatedAt         time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updatedAt"`
}

// GameLists groups a player's games for the inbox view.
type GameLists struct {
	PendingChallenges []Game `json:"pendingChallenges"`
	SentChallenges    []Game `json:"sentChallenges"`
	ActiveGames       []Game `json:"activeGames"`
	CompletedGames    []Game `json:"completedGames"`
}

// GameDetail is a game together with its full round history.
type GameDetail struct {
	Game   *Game   `json:"game"`
	Rounds []Round `json:"rounds"`
}

type LeaderboardEntry struct {
	UserID string `db:"user_id" json:"userId"`
	Wins   int    `db:"wins" json:"wins"`
}
