package web

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of http requests, differentiated by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration = promauto.NewHistogramVec( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// metricsMiddleware records count and duration of every request by route pattern.
func metricsMiddleware(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if e, ok := err.(*fiber.Error); ok { //nolint:errorlint
			status = e.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	route := c.Route().Path
	if status == fiber.StatusNotFound && route == "/" {
		route = "unknown"
	}

	requestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())

	return err
}
