package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skate_app/internal/domain"
	"skate_app/internal/logger"
	"skate_app/internal/metrics"

	"github.com/google/uuid"
)

// returned inside a forfeiture transaction when the rescan shows the
// game was acted on between the scan and the claim
var errNotExpired = errors.New("game no longer expired")

// Options tunes engine timing; zero values fall back to production
// defaults (24h turns, 1h warning window, 30m warning cooldown).
type Options struct {
	TurnWindow      time.Duration
	WarningWindow   time.Duration
	WarningCooldown time.Duration
	Now             func() time.Time
}

// GameService owns every game state transition. Each mutation is one
// read-validate-write pass inside the store claim; notifications and
// audit records fire after commit and never roll a transition back.
type GameService struct {
	store    GameStore
	notifier Notifier
	guard    WarnGuard
	audit    *AuditService

	turnWindow      time.Duration
	warningWindow   time.Duration
	warningCooldown time.Duration
	now             func() time.Time
}

func NewGameService(store GameStore, notifier Notifier, guard WarnGuard, opts Options) *GameService {
	s := &GameService{
		store:           store,
		notifier:        notifier,
		guard:           guard,
		turnWindow:      opts.TurnWindow,
		warningWindow:   opts.WarningWindow,
		warningCooldown: opts.WarningCooldown,
		now:             opts.Now,
	}
	if s.turnWindow <= 0 {
		s.turnWindow = 24 * time.Hour
	}
	if s.warningWindow <= 0 {
		s.warningWindow = time.Hour
	}
	if s.warningCooldown <= 0 {
		s.warningCooldown = 30 * time.Minute
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// SetAudit wires the optional transition audit trail.
func (s *GameService) SetAudit(audit *AuditService) {
	s.audit = audit
}

// CreateGame opens a challenge from challengerID to opponentID.
// The game waits in pending until the opponent responds.
func (s *GameService) CreateGame(ctx context.Context, challengerID, opponentID string) (*domain.Game, error) {
	if challengerID == "" || opponentID == "" {
		return nil, domain.InvalidParticipants("Both players are required")
	}
	if challengerID == opponentID {
		return nil, domain.InvalidParticipants("Challenger and opponent must be different players")
	}

	now := s.now()
	g := &domain.Game{
		ID:        uuid.New(),
		Player1ID: challengerID,
		Player2ID: opponentID,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateGame(ctx, g); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	metrics.GamesCreated.Inc()

	s.auditLog(g.ID, challengerID, domain.AuditActionChallengeSent, map[string]interface{}{
		"opponent_id": opponentID,
	})
	s.dispatch(domain.Notification{
		UserID:  opponentID,
		Event:   domain.EventChallengeReceived,
		GameID:  g.ID.String(),
		Message: "You have been challenged to a game of S.K.A.T.E.",
		Data:    map[string]interface{}{"challengerId": challengerID},
	})

	return g, nil
}

// RespondToChallenge accepts or declines a pending challenge. On
// accept the challenger takes the first turn and the deadline starts.
func (s *GameService) RespondToChallenge(ctx context.Context, gameID uuid.UUID, responderID string, accept bool) (*domain.Game, error) {
	g, err := s.store.Transact(ctx, gameID, func(tx *GameTx) error {
		game := tx.Game
		if game.Player2ID != responderID {
			return domain.Forbidden("Only the invited opponent can respond to a challenge")
		}
		if game.Status != domain.StatusPending {
			return domain.InvalidState("Challenge has already been answered")
		}

		now := s.now()
		if accept {
			turn := game.Player1ID
			deadline := now.Add(s.turnWindow)
			game.Status = domain.StatusActive
			game.CurrentTurn = &turn
			game.DeadlineAt = &deadline
		} else {
			game.Status = domain.StatusDeclined
		}
		game.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if accept {
		s.auditLog(gameID, responderID, domain.AuditActionChallengeAccepted, nil)
		s.dispatch(domain.Notification{
			UserID:  g.Player1ID,
			Event:   domain.EventChallengeAccepted,
			GameID:  gameID.String(),
			Message: "Challenge accepted. You set the first trick",
			Data:    map[string]interface{}{"deadlineAt": g.DeadlineAt},
		})
	} else {
		s.auditLog(gameID, responderID, domain.AuditActionChallengeDeclined, nil)
		s.dispatch(domain.Notification{
			UserID:  g.Player1ID,
			Event:   domain.EventChallengeDeclined,
			GameID:  gameID.String(),
			Message: "Your challenge was declined",
		})
	}

	return g, nil
}

// ProposeTrick opens a new round: the player on offense names a trick
// and posts proof. Only one round may be open at a time.
func (s *GameService) ProposeTrick(ctx context.Context, gameID uuid.UUID, userID, trick, videoURL string) (*domain.Round, error) {
	trick = strings.TrimSpace(trick)
	if trick == "" || videoURL == "" {
		return nil, domain.InvalidState("Trick description and video are required")
	}

	var round *domain.Round
	var responder string
	_, err := s.store.Transact(ctx, gameID, func(tx *GameTx) error {
		game := tx.Game
		if !game.HasPlayer(userID) {
			return domain.Forbidden("Only participants can act on a game")
		}
		if game.Status != domain.StatusActive {
			return domain.InvalidState("Game is not active")
		}
		if tx.OpenRound() != nil {
			return domain.InvalidState("A round is already in progress")
		}
		if !game.OnTurn(userID) {
			return domain.Forbidden("Not your turn to set a trick")
		}

		now := s.now()
		round = &domain.Round{
			ID:             uuid.New(),
			GameID:         game.ID,
			SetterID:       userID,
			Trick:          trick,
			SetterVideoURL: videoURL,
			Outcome:        domain.OutcomePending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		tx.InsertRound(round)
		game.UpdatedAt = now
		responder = game.OtherPlayer(userID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditLog(gameID, userID, domain.AuditActionTrickProposed, map[string]interface{}{
		"round_id": round.ID.String(),
		"trick":    trick,
	})
	s.dispatch(domain.Notification{
		UserID:  responder,
		Event:   domain.EventTurnPassed,
		GameID:  gameID.String(),
		Message: fmt.Sprintf("New trick to match: %s", trick),
		Data:    map[string]interface{}{"roundId": round.ID.String(), "trick": trick},
	})

	return round, nil
}

// SubmitResponseVideo attaches the defense attempt to an open round.
// The setter cannot respond to their own proposal.
func (s *GameService) SubmitResponseVideo(ctx context.Context, gameID, roundID uuid.UUID, userID, videoURL string) (*domain.Round, error) {
	if videoURL == "" {
		return nil, domain.InvalidState("Video is required")
	}

	var round *domain.Round
	var setter string
	_, err := s.store.Transact(ctx, gameID, func(tx *GameTx) error {
		game := tx.Game
		if !game.HasPlayer(userID) {
			return domain.Forbidden("Only participants can act on a game")
		}
		r := tx.Round(roundID)
		if r == nil {
			return domain.NotFound("Round not found")
		}
		if r.SetterID == userID {
			return domain.Forbidden("Setter cannot respond to their own trick")
		}
		if r.Outcome != domain.OutcomePending {
			return domain.InvalidState("Round has already been resolved")
		}
		if game.Status != domain.StatusActive {
			return domain.InvalidState("Game is not active")
		}

		now := s.now()
		v := videoURL
		r.ResponderVideoURL = &v
		r.UpdatedAt = now
		tx.UpdateRound(r)
		game.UpdatedAt = now

		round = r
		setter = r.SetterID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditLog(gameID, userID, domain.AuditActionResponseSubmitted, map[string]interface{}{
		"round_id": roundID.String(),
	})
	s.dispatch(domain.Notification{
		UserID:  setter,
		Event:   domain.EventTurnPassed,
		GameID:  gameID.String(),
		Message: "Response video is in. Review it and resolve the round",
		Data:    map[string]interface{}{"roundId": roundID.String()},
	})

	return round, nil
}

// ResolveRound is the setter's call on the defense attempt. A miss
// hands the responder a letter and the offense; a landed trick keeps
// the setter on offense. The fifth letter ends the game.
func (s *GameService) ResolveRound(ctx context.Context, gameID, roundID uuid.UUID, resolverID string, outcome domain.RoundOutcome) (*domain.Game, error) {
	if outcome != domain.OutcomeLanded && outcome != domain.OutcomeMissed {
		return nil, domain.InvalidState("Outcome must be landed or missed")
	}

	var notes []domain.Notification
	var details map[string]interface{}
	g, err := s.store.Transact(ctx, gameID, func(tx *GameTx) error {
		game := tx.Game
		if !game.HasPlayer(resolverID) {
			return domain.Forbidden("Only participants can act on a game")
		}
		r := tx.Round(roundID)
		if r == nil {
			return domain.NotFound("Round not found")
		}
		if r.SetterID != resolverID {
			return domain.Forbidden("Only offense can resolve a round")
		}
		if r.Outcome != domain.OutcomePending {
			return domain.InvalidState("Round has already been resolved")
		}
		if game.Status != domain.StatusActive {
			return domain.InvalidState("Game is not active")
		}
		if r.SetterVideoURL == "" || r.ResponderVideoURL == nil || *r.ResponderVideoURL == "" {
			return domain.InvalidState("Both videos must be uploaded before resolving")
		}

		now := s.now()
		responder := game.OtherPlayer(r.SetterID)

		r.Outcome = outcome
		r.UpdatedAt = now
		tx.UpdateRound(r)

		notes = notes[:0]
		details = map[string]interface{}{
			"round_id": roundID.String(),
			"outcome":  string(outcome),
		}

		if outcome == domain.OutcomeLanded {
			// same setter proposes again with a fresh window
			deadline := now.Add(s.turnWindow)
			game.DeadlineAt = &deadline
			game.UpdatedAt = now
			notes = append(notes, domain.Notification{
				UserID:  responder,
				Event:   domain.EventTurnPassed,
				GameID:  gameID.String(),
				Message: "Trick landed, no letter. Waiting on the next trick",
				Data:    map[string]interface{}{"roundId": roundID.String()},
			})
			return nil
		}

		letters := game.AddLetter(responder)
		details["letters"] = letters

		if letters >= domain.MaxLetters {
			winner := game.OtherPlayer(responder)
			game.Status = domain.StatusCompleted
			game.WinnerID = &winner
			game.CurrentTurn = nil
			game.DeadlineAt = nil
			game.UpdatedAt = now
			details["winner_id"] = winner
			details["winner_letters"] = game.Letters(winner)
			notes = append(notes,
				domain.Notification{
					UserID:  winner,
					Event:   domain.EventGameOver,
					GameID:  gameID.String(),
					Message: fmt.Sprintf("You won. Your opponent collected %s", domain.LettersWord(letters)),
					Data:    map[string]interface{}{"winnerId": winner},
				},
				domain.Notification{
					UserID:  responder,
					Event:   domain.EventGameOver,
					GameID:  gameID.String(),
					Message: "Game over. That was your fifth letter",
					Data:    map[string]interface{}{"winnerId": winner},
				},
			)
			return nil
		}

		// the player who missed takes over the offense
		turn := responder
		deadline := now.Add(s.turnWindow)
		game.CurrentTurn = &turn
		game.DeadlineAt = &deadline
		game.UpdatedAt = now
		notes = append(notes, domain.Notification{
			UserID:  responder,
			Event:   domain.EventTurnPassed,
			GameID:  gameID.String(),
			Message: fmt.Sprintf("Missed. That's %s. Your turn to set", domain.LettersWord(letters)),
			Data:    map[string]interface{}{"letters": letters},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RoundsResolved.WithLabelValues(string(outcome)).Inc()

	s.auditLog(gameID, resolverID, domain.AuditActionRoundResolved, details)
	for _, n := range notes {
		s.dispatch(n)
	}

	return g, nil
}

// GameByID returns a game with its round history. Participants only.
func (s *GameService) GameByID(ctx context.Context, gameID uuid.UUID, userID string) (*domain.GameDetail, error) {
	g, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	if g == nil {
		return nil, domain.NotFound("Game not found")
	}
	if !g.HasPlayer(userID) {
		return nil, domain.Forbidden("Only participants can view a game")
	}

	rounds, err := s.store.ListRounds(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	return &domain.GameDetail{Game: g, Rounds: rounds}, nil
}

// MyGames groups the caller's games for the inbox view.
func (s *GameService) MyGames(ctx context.Context, userID string) (*domain.GameLists, error) {
	games, err := s.store.ListByPlayer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	lists := &domain.GameLists{
		PendingChallenges: []domain.Game{},
		SentChallenges:    []domain.Game{},
		ActiveGames:       []domain.Game{},
		CompletedGames:    []domain.Game{},
	}
	for _, g := range games {
		switch {
		case g.Status == domain.StatusPending && g.Player2ID == userID:
			lists.PendingChallenges = append(lists.PendingChallenges, g)
		case g.Status == domain.StatusPending:
			lists.SentChallenges = append(lists.SentChallenges, g)
		case g.Status.Terminal():
			lists.CompletedGames = append(lists.CompletedGames, g)
		default:
			lists.ActiveGames = append(lists.ActiveGames, g)
		}
	}
	return lists, nil
}

// Leaderboard ranks players by wins over finished games.
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	entries, err := s.store.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}

// ForfeitExpiredGames closes every active game whose deadline has
// passed, awarding the win to the player who was not on turn. One bad
// game never blocks the rest of the batch. Safe to re-run.
func (s *GameService) ForfeitExpiredGames(ctx context.Context) (int, error) {
	expired, err := s.store.ListExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("list expired games: %w", err)
	}

	count := 0
	for _, g := range expired {
		forfeited, err := s.forfeitGame(ctx, g.ID)
		if err != nil {
			logger.Error("forfeit failed", "game_id", g.ID, "error", err)
			continue
		}
		if forfeited {
			count++
		}
	}
	if count > 0 {
		metrics.GamesForfeited.Add(float64(count))
	}
	return count, nil
}

func (s *GameService) forfeitGame(ctx context.Context, gameID uuid.UUID) (bool, error) {
	var winner, loser string
	_, err := s.store.Transact(ctx, gameID, func(tx *GameTx) error {
		game := tx.Game
		now := s.now()

		// the game may have moved between the scan and the claim
		if game.Status != domain.StatusActive {
			return errNotExpired
		}
		if game.DeadlineAt == nil || !game.DeadlineAt.Before(now) {
			return errNotExpired
		}
		if game.CurrentTurn == nil {
			return fmt.Errorf("active game %s has no current turn", game.ID)
		}

		loser = *game.CurrentTurn
		winner = game.OtherPlayer(loser)

		w := winner
		game.Status = domain.StatusForfeited
		game.WinnerID = &w
		game.CurrentTurn = nil
		game.DeadlineAt = nil
		game.UpdatedAt = now
		return nil
	})
	if errors.Is(err, errNotExpired) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.auditLog(gameID, "", domain.AuditActionGameForfeited, map[string]interface{}{
		"winner_id": winner,
		"loser_id":  loser,
	})
	s.dispatch(domain.Notification{
		UserID:  winner,
		Event:   domain.EventGameOver,
		GameID:  gameID.String(),
		Message: "You won by forfeit. Your opponent missed the deadline",
		Data:    map[string]interface{}{"winnerId": winner, "forfeited": true},
	})
	s.dispatch(domain.Notification{
		UserID:  loser,
		Event:   domain.EventGameOver,
		GameID:  gameID.String(),
		Message: "Game forfeited. The deadline passed on your turn",
		Data:    map[string]interface{}{"winnerId": winner, "forfeited": true},
	})

	return true, nil
}

// NotifyDeadlineWarnings nudges players whose turn is about to expire.
// The cooldown guard keeps repeated passes from spamming: a game is
// warned at most once per cooldown and re-warned after it lapses.
func (s *GameService) NotifyDeadlineWarnings(ctx context.Context) (int, error) {
	now := s.now()
	expiring, err := s.store.ListExpiring(ctx, now, s.warningWindow)
	if err != nil {
		return 0, fmt.Errorf("list expiring games: %w", err)
	}

	count := 0
	for _, g := range expiring {
		if g.CurrentTurn == nil || g.DeadlineAt == nil {
			continue
		}

		ok, err := s.guard.Claim(ctx, g.ID.String(), s.warningCooldown)
		if err != nil {
			// fail open: a duplicate warning beats a missed one
			logger.Error("warning cooldown claim failed", "game_id", g.ID, "error", err)
			ok = true
		}
		if !ok {
			continue
		}

		remaining := g.DeadlineAt.Sub(now).Round(time.Minute)
		s.dispatch(domain.Notification{
			UserID:  *g.CurrentTurn,
			Event:   domain.EventDeadlineWarning,
			GameID:  g.ID.String(),
			Message: fmt.Sprintf("Your move expires in %s. Act now or forfeit", remaining),
			Data: map[string]interface{}{
				"deadlineAt": g.DeadlineAt,
				"remaining":  remaining.String(),
			},
		})
		count++
	}
	if count > 0 {
		metrics.DeadlineWarnings.Add(float64(count))
	}
	return count, nil
}

// dispatch fires a notification without blocking the caller. Delivery
// failures are logged and dropped.
func (s *GameService) dispatch(n domain.Notification) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, n); err != nil {
			logger.Error("notification delivery failed",
				"user_id", n.UserID, "event", n.Event, "error", err)
		}
	}()
}

// auditLog records a transition without blocking the caller.
func (s *GameService) auditLog(gameID uuid.UUID, userID, action string, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.audit.Log(ctx, gameID, userID, action, details)
	}()
}
