package vault

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mantra_vault", Name: "operations_total", Help: "Vault operations by type and result"},
		[]string{"op", "result"},
	)
	authFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "mantra_vault", Name: "auth_failures_total", Help: "Wallet unlocks rejected by the authentication tag"},
	)
	lockoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "mantra_vault", Name: "lockouts_total", Help: "Wallets locked after too many failed unlocks"},
	)
	kdfDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mantra_vault",
			Name:      "kdf_duration_seconds",
			Help:      "Time spent deriving wallet keys",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"algorithm"},
	)
)

func init() {
	prometheus.MustRegister(operationsTotal, authFailuresTotal, lockoutsTotal, kdfDuration)
}
