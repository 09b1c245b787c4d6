package observability

import (
	"database/sql"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolnest_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FavoriteToggles counts favorite toggles by resulting action (added, removed).
	FavoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolnest_favorite_toggles_total",
		Help: "Total number of favorite toggles by action",
	}, []string{"action"})

	// AuthAttempts counts register/login attempts by outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolnest_auth_attempts_total",
		Help: "Total number of authentication attempts",
	}, []string{"action", "outcome"})

	// RateLimitRejections counts requests rejected by the Redis rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolnest_rate_limit_rejections_total",
		Help: "Total number of requests rejected by rate limiting",
	}, []string{"resource"})

	// ActiveWebSockets is the gauge of currently open notification sockets.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "toolnest_websocket_connections",
		Help: "Number of active notification WebSocket connections",
	})

	// NotificationsDelivered counts hub deliveries by outcome (sent, dropped, no_clients).
	NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolnest_notifications_delivered_total",
		Help: "Total number of realtime notifications handled by the hub",
	}, []string{"outcome"})
)

// RegisterDBStats exposes connection pool statistics for the given database handle.
// Registering the same pool twice is not an error.
func RegisterDBStats(db *sql.DB, name string) error {
	err := prometheus.Register(collectors.NewDBStatsCollector(db, name))
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}
