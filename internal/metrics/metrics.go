package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GamesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skate_games_created_total",
		Help: "Challenges created.",
	})

	GamesForfeited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skate_games_forfeited_total",
		Help: "Games closed by deadline forfeiture.",
	})

	DeadlineWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skate_deadline_warnings_total",
		Help: "Deadline warnings sent.",
	})

	RoundsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skate_rounds_resolved_total",
		Help: "Rounds resolved, by outcome.",
	}, []string{"outcome"})

	WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "skate_ws_clients",
		Help: "Connected notification sockets.",
	})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skate_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
