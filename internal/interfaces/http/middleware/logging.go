package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
)

// HTTPRecorder receives per-request measurements. prometheus.AppMetrics
// satisfies it.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, d time.Duration)
	TrackInFlight(method string) func()
}

// AccessLogConfig tunes AccessLog.
type AccessLogConfig struct {
	// SkipPaths are neither logged nor measured.
	SkipPaths []string

	// SlowThreshold promotes successful requests above it to Warn.
	SlowThreshold time.Duration
}

// DefaultAccessLogConfig skips the probe and scrape endpoints.
func DefaultAccessLogConfig() AccessLogConfig {
	return AccessLogConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// AccessLog logs one entry per request, at a level chosen by status class,
// and feeds recorder with the chi route pattern so metric labels stay
// bounded. recorder may be nil.
func AccessLog(logger logging.Logger, recorder HTTPRecorder, config AccessLogConfig) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			if recorder != nil {
				done := recorder.TrackInFlight(r.Method)
				defer done()
			}

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)

			if recorder != nil {
				recorder.RecordHTTPRequest(r.Method, route, status, elapsed)
			}

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.String("route", route),
				logging.Int("status", status),
				logging.Int("bytes", ww.BytesWritten()),
				logging.Duration("latency", elapsed),
				logging.String("remote_addr", r.RemoteAddr),
			}
			if id := chimw.GetReqID(r.Context()); id != "" {
				fields = append(fields, logging.String("request_id", id))
			}

			switch {
			case status >= 500:
				logger.Error("request failed", fields...)
			case status >= 400:
				logger.Warn("request rejected", fields...)
			case config.SlowThreshold > 0 && elapsed >= config.SlowThreshold:
				logger.Warn("slow request", fields...)
			default:
				logger.Info("request completed", fields...)
			}
		})
	}
}

// routePattern reports the matched chi pattern, or "unmatched" when the
// request never reached a route.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

//Personal.AI order the ending
