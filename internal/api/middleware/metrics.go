// Package middleware provides Echo middleware for marketsync.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gradyserv/marketsync/internal/metrics"
)

// Metrics returns Echo middleware that records per-route request duration
// and counts. Operational endpoints are handled separately: /metrics is not
// instrumented at all (scrapes observing scrapes is noise), and the health
// probes update simple up/down gauges instead of the request histograms.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if gauge := probeGauge(path); gauge != nil {
				err := next(c)
				setProbeGauge(gauge, c.Response().Status)
				return err
			}
			if path == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}

func probeGauge(path string) prometheus.Gauge {
	switch path {
	case "/healthz":
		return metrics.HealthzUp
	case "/readyz":
		return metrics.ReadyzUp
	}
	return nil
}

func setProbeGauge(gauge prometheus.Gauge, status int) {
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		gauge.Set(1)
		return
	}
	gauge.Set(0)
}
