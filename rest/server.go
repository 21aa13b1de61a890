package rest

import (
	"context"
	"net/http"
	"time"

	"gradebook/config"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter wires the report routes and /health behind the request logger.
func NewRouter(source ReportSource, pinger Pinger, log zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware(log))

	NewReportHandler(source, log).Register(r)
	r.HandleFunc("/health", healthHandler(pinger, log)).Methods(http.MethodGet)

	return r
}

func NewServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

func healthHandler(pinger Pinger, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pinger.Ping(r.Context()); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, log)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, log)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{w, http.StatusOK}
			next.ServeHTTP(rw, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
