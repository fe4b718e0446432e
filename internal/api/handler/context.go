package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/retailflow/plm-console/internal/api/middleware"
	"github.com/retailflow/plm-console/internal/core/domain"
)

// ctxSession returns the session injected by the Auth middleware. Its
// absence means the route was mounted without Auth.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.SessionFrom(c)
	if !sess.Valid() {
		return nil, domain.ErrNotAuthenticated
	}
	return sess, nil
}
