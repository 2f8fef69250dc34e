package obs

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/backend-greenmart/internal/common"
)

// NewLogger builds the process logger. Format "console" (or "text") renders
// human-readable output; anything else emits JSON. Unknown levels fall back
// to info.
func NewLogger(format, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console", "text":
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	default:
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// LogRequests emits one structured line per request, carrying the request id
// and, when a span is active, the trace and span ids.
func LogRequests(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rr := record(w)
			start := time.Now()
			next.ServeHTTP(rr, r)

			evt := logger.Info().
				Str("method", r.Method).
				Str("route", routeOf(r)).
				Str("path", r.URL.Path).
				Int("status", rr.status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("bytes", rr.bytes).
				Str("request_id", middleware.GetReqID(r.Context()))
			if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
				evt = evt.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
			}
			if user, ok := common.UserID(r.Context()); ok && user != "" {
				evt = evt.Str("user_id", user)
			}
			if r.RemoteAddr != "" {
				evt = evt.Str("remote_addr", r.RemoteAddr)
			}
			if ua := r.UserAgent(); ua != "" {
				evt = evt.Str("user_agent", ua)
			}
			evt.Msg("http_request")
		})
	}
}
