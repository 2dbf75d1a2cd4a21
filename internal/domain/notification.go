package domain

// Event names the state transitions the engine announces.
type Event string

const (
	EventChallengeReceived Event = "challenge_received"
	EventChallengeAccepted Event = "challenge_accepted"
	EventChallengeDeclined Event = "challenge_declined"
	EventTurnPassed        Event = "turn_passed"
	EventDeadlineWarning   Event = "deadline_warning"
	EventGameOver          Event = "game_over"
)

// Notification is delivered best-effort; losing one never rolls back
// the transition that produced it.
type Notification struct {
	UserID  string                 `json:"userId"`
	Event   Event                  `json:"event"`
	GameID  string                 `json:"gameId"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
