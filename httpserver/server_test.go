package httpserver_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"phonebook/errs"
	"phonebook/httpserver"
	"phonebook/pkg/config"

	sentrygo "github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Run("falls back to built in settings", func(t *testing.T) {
		server := httpserver.Default(&config.Config{})

		assert.NotNil(t, server.Router)
		assert.NotNil(t, server.Metrics)
		assert.Equal(t, ":5000", server.Addr)
		assert.Equal(t, []string{"*"}, server.AllowOrigins)
		assert.Equal(t, "1M", server.BodyLimit)
		assert.Zero(t, server.RateLimit)
	})

	t.Run("takes settings from config", func(t *testing.T) {
		server := httpserver.Default(&config.Config{
			Port:         8081,
			AllowOrigins: "https://a.example, ,https://b.example",
			BodyLimit:    "2M",
			RateLimit:    5,
		})

		assert.Equal(t, ":8081", server.Addr)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, server.AllowOrigins)
		assert.Equal(t, "2M", server.BodyLimit)
		assert.Equal(t, 5, server.RateLimit)
	})
}

func TestServer_StartAndShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	server := httpserver.Default(testConfig())
	server.Addr = fmt.Sprintf("127.0.0.1:%d", port)
	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/healthcheck", server.Addr))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_Middlewares(t *testing.T) {
	t.Run("adds request id and security headers", func(t *testing.T) {
		server := httpserver.Default(testConfig())
		recorder := httptest.NewRecorder()

		server.Router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.NotEmpty(t, recorder.Header().Get(echo.HeaderXRequestID))
		assert.Equal(t, "nosniff", recorder.Header().Get(echo.HeaderXContentTypeOptions))
	})

	t.Run("recovers from a panicking handler", func(t *testing.T) {
		server := httpserver.Default(testConfig())
		server.Router.GET("/panic", func(echo.Context) error { panic("boom") })
		recorder := httptest.NewRecorder()

		server.Router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Equal(t, "Internal server error", decodeAPIResponse(t, recorder).Message)
	})
}

func TestServer_CORS(t *testing.T) {
	tests := []struct {
		name          string
		allowOrigins  string
		requestOrigin string
		expected      string
	}{
		{"wildcard allows any origin", "*", "https://ui.example", "*"},
		{"listed origin is echoed", "https://ui.example,https://admin.example", "https://admin.example", "https://admin.example"},
		{"unlisted origin gets no header", "https://ui.example", "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.AllowOrigins = tt.allowOrigins
			server := httpserver.Default(cfg)
			server.ContactService = new(MockContactService)
			request := httptest.NewRequest(http.MethodOptions, "/api/contacts", nil)
			request.Header.Set(echo.HeaderOrigin, tt.requestOrigin)
			request.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPut)
			recorder := httptest.NewRecorder()

			server.Router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.expected, recorder.Header().Get(echo.HeaderAccessControlAllowOrigin))
		})
	}
}

func TestServer_ErrorHandler(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{"invalid", errs.Errorf(errs.EINVALID, "malformed request body"), http.StatusBadRequest, "100010", "malformed request body"},
		{"not found", errs.Errorf(errs.ENOTFOUND, "contact not found"), http.StatusNotFound, "100404", "contact not found"},
		{"wrapped not found", fmt.Errorf("update: %w", errs.Errorf(errs.ENOTFOUND, "contact not found")), http.StatusNotFound, "100404", "contact not found"},
		{"image too large", errs.Errorf(errs.ETOOLARGE, "image must be at most 1MB"), http.StatusRequestEntityTooLarge, "100413", "image must be at most 1MB"},
		{"store unavailable", errs.Errorf(errs.EUNAVAILABLE, "store is down"), http.StatusServiceUnavailable, "100503", "store is down"},
		{"not implemented", errs.Errorf(errs.ENOTIMPLEMENTED, "unknown store driver"), http.StatusNotImplemented, "100501", "unknown store driver"},
		{"internal code hides its message", errs.Errorf(errs.EINTERNAL, "connection refused"), http.StatusInternalServerError, "100500", "Internal server error"},
		{"plain error hides its message", errors.New("disk on fire"), http.StatusInternalServerError, "100500", "Internal server error"},
		{"body over the limit", echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "100413", "Payload too large"},
		{"echo error keeps its message", echo.NewHTTPError(http.StatusUnsupportedMediaType, "unsupported media type"), http.StatusUnsupportedMediaType, "100415", "unsupported media type"},
		{"echo error without message", echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, "100405", "Method Not Allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httpserver.Default(testConfig())
			server.Router.GET("/fail", func(echo.Context) error { return tt.err })
			recorder := httptest.NewRecorder()

			server.Router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			resp := decodeAPIResponse(t, recorder)
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, tt.expectedMessage, resp.Message)
		})
	}

	t.Run("head request gets no body", func(t *testing.T) {
		server := httpserver.Default(testConfig())
		server.Router.HEAD("/fail", func(echo.Context) error { return errs.Errorf(errs.ENOTFOUND, "contact not found") })
		recorder := httptest.NewRecorder()

		server.Router.ServeHTTP(recorder, httptest.NewRequest(http.MethodHead, "/fail", nil))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})
}

type recordingTransport struct {
	mu     sync.Mutex
	events []*sentrygo.Event
}

func (t *recordingTransport) Configure(sentrygo.ClientOptions) {}
func (t *recordingTransport) Flush(time.Duration) bool       { return true }
func (t *recordingTransport) Close()                         {}

func (t *recordingTransport) SendEvent(e *sentrygo.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

func TestServer_ReportsServerErrors(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SENTRY_DSN", "https://public@sentry.example.com/1")
	transport := new(recordingTransport)
	client, err := sentrygo.NewClient(sentrygo.ClientOptions{Dsn: "https://public@sentry.example.com/1", Transport: transport})
	require.NoError(t, err)
	hub := sentrygo.CurrentHub()
	previous := hub.Client()
	hub.BindClient(client)
	t.Cleanup(func() { hub.BindClient(previous) })

	server := httpserver.Default(testConfig())
	server.Router.GET("/contacts/:id/fail", func(echo.Context) error { return errors.New("disk on fire") })
	server.Router.GET("/missing", func(echo.Context) error { return errs.Errorf(errs.ENOTFOUND, "contact not found") })

	failed := httptest.NewRecorder()
	server.Router.ServeHTTP(failed, httptest.NewRequest(http.MethodGet, "/contacts/3/fail", nil))
	server.Router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	transport.mu.Lock()
	defer transport.mu.Unlock()
	require.Len(t, transport.events, 1, "only 5xx responses are reported")
	event := transport.events[0]
	assert.Equal(t, sentrygo.LevelError, event.Level)
	assert.Equal(t, "/contacts/:id/fail", event.Tags["route"])
	assert.Equal(t, failed.Header().Get(echo.HeaderXRequestID), event.Tags["request_id"])
	assert.Equal(t, http.StatusInternalServerError, event.Extra["status"])
}
