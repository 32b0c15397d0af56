package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/finkit/pkg/logger"
)

// HealthCheckHandler returns a probe endpoint.
//
// With no dependency checks supplied it answers liveness: 200 "ALIVE". With
// checks it answers readiness: every check must pass for 200 "READY",
// otherwise 500 "NOT_READY". Checks receive the request context, so a slow
// dependency cannot hold a probe past the client's own deadline.
func HealthCheckHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		ctx := r.Context()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
