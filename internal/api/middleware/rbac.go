package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/retailflow/plm-console/internal/core/domain"
)

// RequireCapability rejects the request unless the session may perform c.
// It must run after Auth.
func RequireCapability(c domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !domain.CanPerform(SessionFrom(ctx), c) {
				return domain.ErrForbidden
			}
			return next(ctx)
		}
	}
}
