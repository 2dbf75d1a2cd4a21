package http

import (
	"skate_app/internal/config"
	"skate_app/internal/http/handlers"
	"skate_app/internal/http/middleware"
	"skate_app/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API, the websocket endpoint and the
// internal scheduler hooks.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, hub *ws.Hub, cfg config.Config) {
	limit := middleware.RateLimit(cfg.RateLimit, cfg.RateWindow)

	r.GET("/healthz", h.Health)
	r.GET("/ws", h.WS(hub, cfg.AllowedOrigin))

	api := r.Group("/api")
	api.GET("/leaderboard", limit, h.Leaderboard)
	if cfg.AllowGuestAuth {
		api.POST("/auth/guest", limit, h.GuestToken)
	}
	if cfg.TelegramToken != "" {
		api.POST("/auth/telegram", limit, h.TelegramLogin(cfg.TelegramToken))
	}

	games := api.Group("")
	games.Use(middleware.Auth(), limit)
	{
		games.POST("/games", h.CreateGame)
		games.GET("/games/my", h.MyGames)
		games.GET("/games/:id", h.GameByID)
		games.POST("/games/:id/respond", h.RespondToChallenge)
		games.POST("/games/:id/rounds", h.ProposeTrick)
		games.POST("/games/:id/rounds/:roundId/video", h.SubmitResponseVideo)
		games.POST("/games/:id/rounds/:roundId/resolve", h.ResolveRound)
	}

	internal := r.Group("/internal")
	internal.Use(middleware.CronAuth(cfg.CronSecret))
	{
		internal.POST("/forfeit", h.ForfeitExpired)
		internal.POST("/warnings", h.SendWarnings)
	}
}
