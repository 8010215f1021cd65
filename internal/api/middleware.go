package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coloredin/coloredin-server/internal/http/response"
	"github.com/coloredin/coloredin-server/internal/logger"
)

// EnvelopeVersion is sent as "v" in every JSON body so clients can detect
// format changes.
const EnvelopeVersion = response.Version

// APIEnvelope wraps successful responses and simple errors.
type APIEnvelope = response.Envelope

// APIErrorEnvelope is the body of a coded error.
type APIErrorEnvelope = response.ErrorEnvelope

// EnvelopeTransformer wraps every huma response body in the versioned
// envelope. Coded errors keep code, message and details at the top level.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case *APIError:
		if body.Code == "" {
			return APIEnvelope{Version: EnvelopeVersion, Error: body.Message}, nil
		}
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Code:    body.Code,
			Message: body.Message,
			Details: body.Details,
		}, nil
	case error:
		return APIEnvelope{Version: EnvelopeVersion, Error: body.Error()}, nil
	}

	code, err := strconv.Atoi(status)
	if err != nil {
		code = http.StatusOK
	}
	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: code < 400,
		Data:    v,
	}, nil
}

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coloredin",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coloredin",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// metricsMiddleware records request counts and latency. Routes are labelled
// by their chi pattern to keep label cardinality bounded.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// requestLogContext tags every record logged with the request context with
// the chi request ID. It must run after middleware.RequestID.
func requestLogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		if reqID == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := logger.ContextWith(r.Context(), slog.String("request_id", reqID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
