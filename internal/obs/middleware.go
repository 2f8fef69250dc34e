package obs

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type routePatternKey struct{}

// CaptureRoutePattern stores the matched chi route pattern on the request
// context so later middleware can label by route instead of raw path.
func CaptureRoutePattern(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if rc := chi.RouteContext(ctx); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				ctx = context.WithValue(ctx, routePatternKey{}, p)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func routeOf(r *http.Request) string {
	if p, ok := r.Context().Value(routePatternKey{}).(string); ok && p != "" {
		return p
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// responseRecorder captures the status and byte count of a response.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func record(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.status = code
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(p []byte) (int, error) {
	n, err := rr.ResponseWriter.Write(p)
	rr.bytes += int64(n)
	return n, err
}

// MeasureRequests counts requests and observes latency per method and route.
// A nil metrics set disables instrumentation.
func MeasureRequests(m *HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rr := record(w)
			m.Inflight.Inc()
			start := time.Now()
			next.ServeHTTP(rr, r)
			m.Inflight.Dec()

			route := routeOf(r)
			m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(rr.status)).Inc()
			m.Latency.WithLabelValues(r.Method, route).Observe(millis(time.Since(start)))
		})
	}
}

// TraceRequests opens an OpenTelemetry span per request and records the
// outcome on it.
func TraceRequests(next http.Handler) http.Handler {
	tracer := otel.Tracer("http.server")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeOf(r)
		ctx, span := tracer.Start(r.Context(), r.Method+" "+route)
		rr := record(w)
		next.ServeHTTP(rr, r.WithContext(ctx))

		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.String("http.target", r.URL.Path),
			attribute.Int("http.status_code", rr.status),
		)
		if rr.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rr.status))
		}
		span.End()
	})
}
