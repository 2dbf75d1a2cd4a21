package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ForfeitExpired runs one forfeit pass. External schedulers hit this
// when the in-process watcher is disabled.
func (h *Handler) ForfeitExpired(c *gin.Context) {
	count, err := h.Games.ForfeitExpiredGames(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forfeited": count})
}

// SendWarnings runs one deadline warning pass.
func (h *Handler) SendWarnings(c *gin.Context) {
	count, err := h.Games.NotifyDeadlineWarnings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warned": count})
}
