package handlers

import (
	"net/http"

	"skate_app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseID returns the uuid path param or responds 404. An id that
// does not parse cannot name an existing resource.
func parseID(c *gin.Context, name, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return uuid.Nil, false
	}
	return id, true
}

// CreateGame opens a challenge against another player.
func (h *Handler) CreateGame(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req struct {
		OpponentID string `json:"opponentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	game, err := h.Games.CreateGame(c.Request.Context(), userID, req.OpponentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// RespondToChallenge accepts or declines a pending challenge.
func (h *Handler) RespondToChallenge(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	gameID, ok := parseID(c, "id", "Game not found")
	if !ok {
		return
	}

	var req struct {
		Accept *bool `json:"accept" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accept is required"})
		return
	}

	game, err := h.Games.RespondToChallenge(c.Request.Context(), gameID, userID, *req.Accept)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// ProposeTrick opens a round: the player on turn sets a trick.
func (h *Handler) ProposeTrick(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	gameID, ok := parseID(c, "id", "Game not found")
	if !ok {
		return
	}

	var req struct {
		Trick    string `json:"trick"`
		VideoURL string `json:"videoUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	round, err := h.Games.ProposeTrick(c.Request.Context(), gameID, userID, req.Trick, req.VideoURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, round)
}

// SubmitResponseVideo attaches the responder's attempt to the round.
func (h *Handler) SubmitResponseVideo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	gameID, ok := parseID(c, "id", "Game not found")
	if !ok {
		return
	}
	roundID, ok := parseID(c, "roundId", "Round not found")
	if !ok {
		return
	}

	var req struct {
		VideoURL string `json:"videoUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	round, err := h.Games.SubmitResponseVideo(c.Request.Context(), gameID, roundID, userID, req.VideoURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// ResolveRound lets the setter judge the responder's attempt.
func (h *Handler) ResolveRound(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	gameID, ok := parseID(c, "id", "Game not found")
	if !ok {
		return
	}
	roundID, ok := parseID(c, "roundId", "Round not found")
	if !ok {
		return
	}

	var req struct {
		Outcome string `json:"outcome"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	game, err := h.Games.ResolveRound(c.Request.Context(), gameID, roundID, userID, domain.RoundOutcome(req.Outcome))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// MyGames returns the caller's games grouped for the inbox view.
func (h *Handler) MyGames(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	lists, err := h.Games.MyGames(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// GameByID returns one game with its full round history.
func (h *Handler) GameByID(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	gameID, ok := parseID(c, "id", "Game not found")
	if !ok {
		return
	}

	detail, err := h.Games.GameByID(c.Request.Context(), gameID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
