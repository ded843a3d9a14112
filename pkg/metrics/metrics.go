package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "firegate", Name: "auth_attempts_total", Help: "Credential validation attempts by result."},
		[]string{"result"},
	)
	TokenLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "firegate", Name: "token_lookups_total", Help: "Bearer token digest lookups by result."},
		[]string{"result"},
	)
	StoreOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "firegate", Name: "store_ops_total", Help: "Remote store operations by backend and op."},
		[]string{"backend", "op"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "firegate", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "firegate", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
	reg.MustRegister(TokenLookups)
	reg.MustRegister(StoreOps)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
