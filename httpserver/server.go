package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"phonebook/contact"
	"phonebook/errs"
	"phonebook/pkg/config"
	"phonebook/pkg/sentry"

	"github.com/VictoriaMetrics/metrics"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	defaultAddr      = ":5000"
	defaultBodyLimit = "1M"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	// BodyLimit caps request bodies, e.g. "1M"
	BodyLimit string

	// RateLimit is the allowed requests per second per client, 0 disables it
	RateLimit int

	Logger *slog.Logger

	Metrics *metrics.Set

	ContactService contact.Service
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:       echo.New(),
		Addr:         defaultAddr,
		AllowOrigins: []string{"*"},
		BodyLimit:    defaultBodyLimit,
		RateLimit:    cfg.RateLimit,
		Logger:       slog.Default(),
		Metrics:      metrics.NewSet(),
	}
	if cfg.Port > 0 {
		s.Addr = fmt.Sprintf(":%d", cfg.Port)
	}
	if cfg.AllowOrigins != "" {
		s.AllowOrigins = splitOrigins(cfg.AllowOrigins)
	}
	if cfg.BodyLimit != "" {
		s.BodyLimit = cfg.BodyLimit
	}

	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = s.customHTTPErrorHandler
	s.RegisterGlobalMiddlewares()
	s.RegisterHealthRoutes()
	s.RegisterMetricsRoutes()
	s.RegisterContactRoutes(s.Router.Group("/api"))
	return &s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(s.requestLogger())
	s.Router.Use(s.collectMetrics)
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	if s.RateLimit > 0 {
		s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.RateLimit))))
	}
	s.Router.Use(middleware.BodyLimit(s.BodyLimit))

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		}))
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.Logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

func (s *Server) Start() error {
	s.Logger.Info("http server listening", "addr", s.Addr)
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// customHTTPErrorHandler maps application errors to appropriate HTTP status codes
func (s *Server) customHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = httpErrorMessage(he)
	} else {
		// Map application error codes to HTTP status codes
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			code = http.StatusBadRequest
			message = errs.ErrorMessage(err)
		case errs.ENOTFOUND:
			code = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ETOOLARGE:
			code = http.StatusRequestEntityTooLarge
			message = errs.ErrorMessage(err)
		case errs.EUNAVAILABLE:
			code = http.StatusServiceUnavailable
			message = errs.ErrorMessage(err)
		case errs.ENOTIMPLEMENTED:
			code = http.StatusNotImplemented
			message = errs.ErrorMessage(err)
		}
	}

	if code >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "error", err, "uri", c.Request().RequestURI)
		sentry.WithContext(c).
			WithTags(map[string]string{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"route":      c.Path(),
			}).
			WithExtras(map[string]interface{}{"status": code}).
			Error(err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = writeError(c, code, message, "", err)
	}
	if err != nil {
		s.Logger.Error("cannot write error response", "error", err)
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	if he.Code == http.StatusRequestEntityTooLarge {
		return "Payload too large"
	}
	if he.Code >= http.StatusInternalServerError {
		return "Internal server error"
	}
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	}
	return http.StatusText(he.Code)
}

func splitOrigins(v string) []string {
	var origins []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
