package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/retailflow/plm-console/internal/pkg/metrics"
)

// Metrics counts requests by route template and final status code. Errors
// are rendered here so the recorded code is the one the client sees.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil && !c.Response().Committed {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.ConsoleRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Response().Status)).Inc()
			return err
		}
	}
}
