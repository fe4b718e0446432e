package handler

import (
	"errors"

	"github.com/retailflow/plm-console/internal/core/domain"
)

// alertMessage is the operator-facing text for a failed action.
func alertMessage(err error) string {
	var re *domain.RequestError
	var ne *domain.NetworkError
	switch {
	case errors.As(err, &re):
		return re.Message
	case errors.As(err, &ne):
		return "Could not reach the PLM API."
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "Authentication error. Please log in again."
	case errors.Is(err, domain.ErrUnexpectedPayload):
		return "Product data was not returned in a valid format."
	default:
		return err.Error()
	}
}

// raisesAlert reports whether err should be shown as a danger alert. Local
// rejections (validation, overlap, superseded results) are answered inline.
func raisesAlert(err error) bool {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrActionInFlight),
		errors.Is(err, domain.ErrStaleResult),
		errors.Is(err, domain.ErrSessionSuperseded):
		return false
	}
	return true
}
