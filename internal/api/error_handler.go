package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailflow/plm-console/internal/core/domain"
)

// errorResponse is the canonical error envelope for all console errors.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain and upstream errors to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Error(), Fields: ve.Fields}
	}

	// Upstream API answered with an error status.
	var re *domain.RequestError
	if errors.As(err, &re) {
		if re.StatusCode >= 400 && re.StatusCode < 500 {
			return re.StatusCode, errorResponse{Error: re.Message}
		}
		return http.StatusBadGateway, errorResponse{Error: re.Message}
	}

	var ne *domain.NetworkError
	var pe *domain.ParseError
	switch {
	case errors.As(err, &ne):
		return http.StatusBadGateway, errorResponse{Error: "PLM API unreachable"}
	case errors.As(err, &pe):
		return http.StatusBadGateway, errorResponse{Error: pe.Error()}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "not authenticated"}
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusUnauthorized, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrNoSuccessor):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrActionInFlight),
		errors.Is(err, domain.ErrSessionSuperseded),
		errors.Is(err, domain.ErrStaleResult):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrProductNotInView):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUnexpectedPayload):
		return http.StatusBadGateway, errorResponse{Error: "Product data was not returned in a valid format."}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
