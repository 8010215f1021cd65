package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coloredin/coloredin-server/internal/api/dto"
	"github.com/coloredin/coloredin-server/internal/auth"
	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/ratelimit"
	"github.com/coloredin/coloredin-server/internal/search"
	"github.com/coloredin/coloredin-server/internal/service"
	"github.com/coloredin/coloredin-server/internal/store"
	"github.com/coloredin/coloredin-server/internal/store/sqlite"
	"github.com/coloredin/coloredin-server/internal/validation"
)

const testBillingSecret = "whsec-test"

// testEnvelope is the success envelope with typed data.
type testEnvelope[T any] struct {
	Version int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// testErrorEnvelope is the coded error envelope.
type testErrorEnvelope struct {
	Version int            `json:"v"`
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type testServer struct {
	api      humatest.TestAPI
	server   *Server
	subs     *store.Store
	tokens   *auth.TokenService
	services *Services
}

type testOptions struct {
	completer service.Completer
	aiLimiter *ratelimit.KeyedRateLimiter
	ipLimiter *ratelimit.KeyedRateLimiter
	checks    map[string]HealthCheck
	noBilling bool
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestServer creates a test server backed by real stores in a temp dir.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWith(t, testOptions{})
}

func setupTestServerWith(t *testing.T, opts testOptions) *testServer {
	t.Helper()
	dir := t.TempDir()
	logger := discardLogger()

	subs, err := store.New(filepath.Join(dir, "badger"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = subs.Close() })

	palettes, err := sqlite.Open(filepath.Join(dir, "palettes.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = palettes.Close() })

	index, _, err := search.Open(search.Options{DataPath: filepath.Join(dir, "search"), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	key, err := auth.DeriveKey("api-test-secret")
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	catalog := palette.NewCatalog(palette.WithMetrics(palette.DefaultMetrics()))
	subscriptions := service.NewSubscriptionService(subs, validation.New(), logger)
	catalogSvc := service.NewCatalogService(catalog, subscriptions, logger)

	services := &Services{
		Catalog:      catalogSvc,
		Palette:      service.NewPaletteService(palettes, index, validation.New(), logger),
		Feed:         service.NewFeedService(palettes, catalogSvc, logger),
		Subscription: subscriptions,
		Suggestion:   service.NewSuggestionService(opts.completer, catalog, opts.aiLimiter, time.Second, logger),
		Preview:      service.NewPreviewService(catalogSvc, logger),
	}

	checks := opts.checks
	if checks == nil {
		checks = map[string]HealthCheck{
			"subscriptions": subs.Ping,
			"palettes":      palettes.Ping,
		}
	}

	billingSecret := testBillingSecret
	if opts.noBilling {
		billingSecret = ""
	}

	server := NewServer(services, tokens, Options{
		BillingSecret: billingSecret,
		CORSOrigins:   []string{"https://coloredin.test"},
		Limiter:       opts.ipLimiter,
		Checks:        checks,
	}, logger)

	return &testServer{
		api:      humatest.Wrap(t, server.API()),
		server:   server,
		subs:     subs,
		tokens:   tokens,
		services: services,
	}
}

// bearer returns an Authorization header argument for humatest.
func (ts *testServer) bearer(t *testing.T, userID string) string {
	t.Helper()
	token, _, err := ts.tokens.GenerateAccessToken(userID)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope), string(body))
	require.True(t, envelope.Success, string(body))
	assert.Equal(t, EnvelopeVersion, envelope.Version)
	return envelope.Data
}

func decodeError(t *testing.T, body []byte) testErrorEnvelope {
	t.Helper()
	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope), string(body))
	assert.False(t, envelope.Success)
	return envelope
}

func TestServer_MetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	// Generate at least one labelled request first.
	ts.api.Get("/api/v1/catalog/random")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coloredin_http_requests_total")
	assert.Contains(t, rec.Body.String(), "coloredin_catalog_cache_entries")
}

func TestServer_CORSPreflight(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/palettes", nil)
	req.Header.Set("Origin", "https://coloredin.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	assert.Equal(t, "https://coloredin.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_CORSRejectsUnknownOrigin(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/random", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_OpenAPIDocument(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/openapi.json")
	require.Equal(t, http.StatusOK, resp.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/api/v1/catalog/palettes/{index}")
	assert.Contains(t, paths, "/api/v1/billing/webhook")

	// Engine and user palettes share a Go name, so the schemas must not.
	components, ok := doc["components"].(map[string]any)
	require.True(t, ok)
	schemas, ok := components["schemas"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, schemas, "CatalogPalette")
	assert.Contains(t, schemas, "UserPalette")
	assert.NotContains(t, schemas, "Palette")
}

func TestRateLimitMiddleware_LimitsAPIByIP(t *testing.T) {
	limiter := ratelimit.New(0.001, 2)
	t.Cleanup(limiter.Stop)
	ts := setupTestServerWith(t, testOptions{ipLimiter: limiter})

	for range 2 {
		resp := ts.api.Get("/api/v1/catalog/random", "X-Forwarded-For: 203.0.113.9")
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/catalog/random", "X-Forwarded-For: 203.0.113.9")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp.Body.Bytes()).Code)

	// Another client still has its own budget.
	resp = ts.api.Get("/api/v1/catalog/random", "X-Forwarded-For: 198.51.100.4")
	assert.Equal(t, http.StatusOK, resp.Code)

	// Health checks are never limited.
	resp = ts.api.Get("/health", "X-Forwarded-For: 203.0.113.9")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:1234", "198.51.100.4"},
		{"remote addr", nil, "192.0.2.7:5555", "192.0.2.7"},
		{"ipv6 remote addr", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"remote without port", nil, "192.0.2.7", "192.0.2.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestAuthMiddleware_InvalidTokenIsAnonymous(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/subscription", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Public endpoints still answer, as the free plan.
	resp = ts.api.Get("/api/v1/catalog/page", "Authorization: Bearer not-a-token")
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeData[dto.CatalogPage](t, resp.Body.Bytes())
	assert.Equal(t, "free", string(page.Plan))
}

func TestErrorHandler_MapsStoreErrors(t *testing.T) {
	err := newAPIError(http.StatusInternalServerError, "boom", store.ErrNotFound.WithMessage("palette missing"))

	assert.Equal(t, http.StatusNotFound, err.GetStatus())
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "palette missing", apiErr.Message)
}

func TestErrorHandler_UnknownErrorKeepsStatus(t *testing.T) {
	err := newAPIError(http.StatusBadGateway, "upstream failed", errors.New("dial tcp"))

	assert.Equal(t, http.StatusBadGateway, err.GetStatus())
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "UPSTREAM", apiErr.Code)
}

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decodeData[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["subscriptions"].Status)
	assert.Equal(t, "healthy", health.Components["palettes"].Status)
}

func TestHealthCheck_UnhealthyComponent(t *testing.T) {
	ts := setupTestServerWith(t, testOptions{checks: map[string]HealthCheck{
		"ok":     func(context.Context) error { return nil },
		"broken": func(context.Context) error { return errors.New("disk gone") },
	}})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decodeData[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "disk gone", health.Components["broken"].Message)
	assert.Equal(t, "healthy", health.Components["ok"].Status)
}

func TestHealthCheck_UnconfiguredCheckDegrades(t *testing.T) {
	ts := setupTestServerWith(t, testOptions{checks: map[string]HealthCheck{
		"search": nil,
	}})

	resp := ts.api.Get("/health")
	health := decodeData[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "degraded", health.Status)
}
