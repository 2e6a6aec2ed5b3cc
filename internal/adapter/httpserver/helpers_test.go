package httpserver

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/flashgate/internal/flash"
	"github.com/pscheid92/flashgate/internal/platform/config"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "test-secret-key-32-bytes-long!!!"

// --- Test helpers ---

func newTestConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		Port:               "0",
		SessionSecret:      testSessionSecret,
		SessionMaxAge:      time.Hour,
		RateLimitPerSecond: 1000,
		RateLimitBurst:     1000,
	}
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()

	tmpl := template.Must(template.New("register.html").Parse(
		`Register{{range .Flashes}} [{{.Category}}] {{.Message}}{{end}}`))

	store := sessions.NewCookieStore([]byte(testSessionSecret))
	store.Options = &sessions.Options{
		Path:   "/",
		MaxAge: 3600,
	}

	srv := &Server{
		echo:         newEcho(),
		config:       newTestConfig(),
		clock:        clockwork.NewFakeClock(),
		sessionStore: store,
		templates:    tmpl,
	}

	for _, opt := range opts {
		opt(srv)
	}
	srv.startTime = srv.clock.Now()

	srv.registerRoutes()
	require.NoError(t, srv.resolveEndpoints())

	return srv
}

// serve runs req through the full middleware stack.
func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

// withCookies builds a follow-up request carrying the cookies set on rec,
// the way a browser would.
func withCookies(method, target string, rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return req
}

// sessionFlashes decodes the session cookie on rec and returns its pending flashes.
func sessionFlashes(t *testing.T, srv *Server, rec *httptest.ResponseRecorder) []flash.Flash {
	t.Helper()
	session, err := srv.sessionStore.Get(withCookies(http.MethodGet, "/", rec), sessionName)
	require.NoError(t, err)
	return flash.Peek(session)
}

// limitCookieLength caps encoded session cookies at n bytes, forcing encode failures.
func limitCookieLength(t *testing.T, srv *Server, n int) {
	t.Helper()
	for _, codec := range srv.sessionStore.Codecs {
		sc, ok := codec.(*securecookie.SecureCookie)
		require.True(t, ok)
		sc.MaxLength(n)
	}
}
