package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pathfinder-api/internal/metrics"
)

// Metrics records request count and latency per route template.  Requests
// that matched no route are grouped under "unmatched" to keep label
// cardinality bounded.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			route := c.Path()
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
					if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
						route = "unmatched"
					}
				} else {
					status = http.StatusInternalServerError
				}
			}
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}
