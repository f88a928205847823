package api

import (
	"net/http"
	"time"

	"github.com/AlexZinkM/mantra-vault/internal/handler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(h *handler.VaultHandler, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Wallet endpoints
	mux.HandleFunc("/wallets", h.Wallets)
	mux.HandleFunc("/wallets/generate", h.Generate)
	mux.HandleFunc("/wallets/unlock", h.Unlock)
	mux.HandleFunc("/wallets/rename", h.Rename)
	mux.HandleFunc("/wallets/password", h.ChangePassword)
	mux.HandleFunc("/wallets/qr", h.QR)
	mux.HandleFunc("/wallets/check", h.Check)
	mux.HandleFunc("/password/check", h.CheckPassword)

	return withLogging(mux, log)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs method, path, status and duration. Bodies and query strings are never
// logged, they may hold passwords or wallet names.
func withLogging(next http.Handler, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
