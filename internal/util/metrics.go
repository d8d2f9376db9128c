package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CoinCodesIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coin_codes_issued_total",
		Help: "Total number of coin codes issued",
	})

	CoinsRedeemedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coins_redeemed_total",
		Help: "Total coins credited through code redemption",
	})

	RedemptionsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redemptions_failed_total",
		Help: "Total number of failed code redemptions",
	}, []string{"reason"})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Total number of rejected order attempts",
	}, []string{"reason"})

	OrdersAdvancedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_advanced_total",
		Help: "Total number of order status advances",
	}, []string{"to_status"})

	GuestLoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guest_logins_total",
		Help: "Total number of guest logins",
	})

	SessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_expired_total",
		Help: "Total number of guest sessions expired by the event window",
	})

	PollCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poll_cycles_total",
		Help: "Total number of sync poller read cycles",
	})

	PollChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poll_changes_total",
		Help: "Total number of poll cycles that observed a state change",
	})

	DescriptionFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "description_fallbacks_total",
		Help: "Total number of drink descriptions served from the template fallback",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
