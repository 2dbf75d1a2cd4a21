package handlers

import (
	"net/http"
	"time"

	"skate_app/internal/domain"
	"skate_app/internal/logger"
	"skate_app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler carries the dependencies of the HTTP layer.
type Handler struct {
	Games *service.GameService
	Audit *service.AuditService
}

func NewHandler(games *service.GameService) *Handler {
	return &Handler{Games: games}
}

// getUserID returns the authenticated user set by the auth middleware.
func getUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// writeError translates engine errors into HTTP responses. Unmapped
// errors become opaque 500s; their detail goes to the log only.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindInvalidState, domain.KindInvalidParticipants:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GuestToken mints a token for an arbitrary user id. Development
// convenience; mounted only when AUTH_ALLOW_GUEST is set.
func (h *Handler) GuestToken(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	token, err := service.IssueJWT(req.UserID, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	if h.Audit != nil {
		h.Audit.LogWithRequest(c.Request.Context(), uuid.Nil, req.UserID,
			domain.AuditActionGuestLogin, c.ClientIP(), c.Request.UserAgent(), nil)
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "userId": req.UserID})
}

// TelegramLogin exchanges signed Telegram WebApp init data for a
// token. The player id becomes the Telegram user id, which also makes
// the account reachable for DM notifications.
func (h *Handler) TelegramLogin(botToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			InitData string `json:"initData" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "initData is required"})
			return
		}

		values, ok := service.ValidateTelegramInitData(req.InitData, botToken)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data"})
			return
		}
		userID, ok := service.TelegramUserID(values)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data"})
			return
		}

		token, err := service.IssueJWT(userID, 24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}

		if h.Audit != nil {
			h.Audit.LogWithRequest(c.Request.Context(), uuid.Nil, userID,
				domain.AuditActionTelegramLogin, c.ClientIP(), c.Request.UserAgent(), nil)
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "userId": userID})
	}
}
