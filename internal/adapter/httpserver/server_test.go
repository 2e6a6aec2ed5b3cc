package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pscheid92/flashgate/internal/adapter/metrics"
	"github.com/pscheid92/flashgate/internal/flash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RedirectScenario(t *testing.T) {
	srv, err := NewServer(newTestConfig())
	require.NoError(t, err)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))
	assert.Equal(t, []flash.Flash{wantNotice}, sessionFlashes(t, srv, rec))

	page := serve(srv, withCookies(http.MethodGet, "/register", rec))

	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `class="flash flash-info"`)
	assert.Contains(t, page.Body.String(), "You are being redirected to the registration page.")

	again := serve(srv, withCookies(http.MethodGet, "/register", page))
	assert.NotContains(t, again.Body.String(), "You are being redirected")
}

func TestNewServer_SessionCookieOptions(t *testing.T) {
	cfg := newTestConfig()
	cfg.AppEnv = "production"

	srv, err := NewServer(cfg)
	require.NoError(t, err)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestNewServer_MetricsEndpoint(t *testing.T) {
	srv, err := NewServer(newTestConfig(), WithMetrics(metrics.NewRegistry()))
	require.NoError(t, err)

	serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `flashgate_flash_raised_total{category="info"} 1`)
	assert.Contains(t, rec.Body.String(), `flashgate_http_requests_total{method="GET",route="/",status_code="302"} 1`)
}

func TestNewServer_NoMetricsRouteByDefault(t *testing.T) {
	srv, err := NewServer(newTestConfig())
	require.NoError(t, err)

	_, err = srv.URLFor("metrics")
	assert.ErrorIs(t, err, ErrEndpointNotFound)
}

func TestNewServer_MetricsRecordMethodNotAllowed(t *testing.T) {
	srv, err := NewServer(newTestConfig(), WithMetrics(metrics.NewRegistry()))
	require.NoError(t, err)

	rec := serve(srv, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	out := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, out.Body.String(), `flashgate_http_requests_total{method="POST",route="/",status_code="405"} 1`)
	assert.NotContains(t, out.Body.String(), `flashgate_http_requests_total{method="POST",route="/",status_code="200"}`)
}
