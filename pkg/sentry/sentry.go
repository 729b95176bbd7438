package sentry

import (
	"os"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// FlushTime bounds how long Fatal waits for buffered events.
var FlushTime = 2 * time.Second

// Sentry builds a single event. The zero value reports through the current hub.
type Sentry struct {
	context echo.Context
	tags    map[string]string
	extras  map[string]interface{}
}

func WithContext(c echo.Context) *Sentry {
	return new(Sentry).WithContext(c)
}

func WithTags(tags map[string]string) *Sentry {
	return new(Sentry).WithTags(tags)
}

// WithContext reports through the request hub and attaches the request.
func (s *Sentry) WithContext(c echo.Context) *Sentry {
	s.context = c
	return s
}

// WithTags adds tags; empty values are dropped.
func (s *Sentry) WithTags(tags map[string]string) *Sentry {
	for k, v := range tags {
		if v == "" {
			continue
		}
		if s.tags == nil {
			s.tags = make(map[string]string, len(tags))
		}
		s.tags[k] = v
	}
	return s
}

func (s *Sentry) WithExtras(extras map[string]interface{}) *Sentry {
	for k, v := range extras {
		if s.extras == nil {
			s.extras = make(map[string]interface{}, len(extras))
		}
		s.extras[k] = v
	}
	return s
}

func (s *Sentry) Warning(msg string) {
	if msg == "" {
		return
	}
	s.send(sentrygo.LevelWarning, func(hub *sentrygo.Hub) { hub.CaptureMessage(msg) })
}

func (s *Sentry) Error(err error) {
	if err == nil {
		return
	}
	s.send(sentrygo.LevelError, func(hub *sentrygo.Hub) { hub.CaptureException(err) })
}

// Fatal reports err and flushes. Exiting is left to the caller.
func (s *Sentry) Fatal(err error) {
	if err == nil {
		return
	}
	s.send(sentrygo.LevelFatal, func(hub *sentrygo.Hub) { hub.CaptureException(err) })
	sentrygo.Flush(FlushTime)
}

func Fatal(err error) {
	new(Sentry).Fatal(err)
}

func enabled() bool {
	return os.Getenv("APP_ENV") != "local" && os.Getenv("SENTRY_DSN") != ""
}

func (s *Sentry) hub() *sentrygo.Hub {
	if s.context != nil {
		if hub := sentryecho.GetHubFromContext(s.context); hub != nil {
			return hub
		}
	}
	return sentrygo.CurrentHub()
}

func (s *Sentry) send(level sentrygo.Level, capture func(*sentrygo.Hub)) {
	if !enabled() {
		return
	}
	hub := s.hub()
	hub.WithScope(func(scope *sentrygo.Scope) {
		scope.SetLevel(level)
		if len(s.tags) > 0 {
			scope.SetTags(s.tags)
		}
		if len(s.extras) > 0 {
			scope.SetExtras(s.extras)
		}
		if s.context != nil && s.context.Request() != nil {
			scope.SetRequest(s.context.Request())
		}
		capture(hub)
	})
}
