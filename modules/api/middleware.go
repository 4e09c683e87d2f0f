package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/example/todo-api/metrics"
	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records a duration observation and a request count for
// every response, labeled with method, route, status code, and outcome.
func MetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Use the registered route pattern, not the raw path, to keep
		// label cardinality bounded.
		route := c.Route().Path
		method := c.Method()
		statusCode := strconv.Itoa(status)
		success := strconv.FormatBool(status < 400)

		m.HTTPRequestDuration.
			WithLabelValues(method, route, statusCode, success).
			Observe(time.Since(start).Seconds())
		m.HTTPRequestsTotal.
			WithLabelValues(method, route, statusCode, success).
			Inc()

		return err
	}
}
