package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthLive(t *testing.T) {
	env := newTestEnv()

	rr := env.do(t, http.MethodGet, "/health/live", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, StatusUp, decode[HealthResponse](t, rr).Status)
}

func TestHealthReady(t *testing.T) {
	env := newTestEnv()
	env.health.Register("mongodb", func(context.Context) error { return nil })

	rr := env.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, StatusUp, decode[HealthResponse](t, rr).Checks["mongodb"].Status)

	env.health.Register("kafka", func(context.Context) error { return errors.New("no brokers") })

	rr = env.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	body := decode[HealthResponse](t, rr)
	assert.Equal(t, StatusDown, body.Status)
	assert.Equal(t, "no brokers", body.Checks["kafka"].Error)
	assert.Equal(t, StatusUp, body.Checks["mongodb"].Status)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv()
	env.do(t, http.MethodGet, "/health/live", "", nil)

	rr := env.do(t, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `goldmart_http_requests_total{code="200",method="GET",route="/health/live"} 1`)
}

func TestCorrelationID(t *testing.T) {
	env := newTestEnv()

	rr := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.NotEmpty(t, rr.Header().Get(correlationHeader))

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(correlationHeader, "abc-123")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(correlationHeader))
}

func TestSecureHeaders(t *testing.T) {
	env := newTestEnv()

	rr := env.do(t, http.MethodGet, "/health/live", "", nil)

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodOptions, "/api/rates", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv()

	rr := env.do(t, http.MethodGet, "/api/orders", "", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", decode[ErrorResponse](t, rr).Code)
}
