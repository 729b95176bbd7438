package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/labstack/echo/v4"
)

var buckets = metrics.ExponentialBuckets(1e-3, 5, 6)

func (s *Server) RegisterMetricsRoutes() {
	s.Router.GET("/metrics", s.handleMetrics)
}

// collectMetrics counts requests and their latency per route. Unmatched
// paths are grouped under their status so scanners can't blow up cardinality.
func (s *Server) collectMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		labels := fmt.Sprintf(`{method=%q,path=%q,status="%d"}`, c.Request().Method, path, c.Response().Status)
		s.Metrics.GetOrCreatePrometheusHistogramExt(`http_request_duration_seconds`+labels, buckets).UpdateDuration(start)
		s.Metrics.GetOrCreateCounter(`http_requests_total` + labels).Inc()
		return nil
	}
}

func (s *Server) handleMetrics(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	s.Metrics.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
	return nil
}
