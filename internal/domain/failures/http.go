package failures

import (
	"errors"
	"net/http"
)

// HTTPStatus traduce la taxonomía a un status HTTP.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrBusy), errors.Is(err, ErrInvalidState), errors.Is(err, ErrCancelled):
		return http.StatusConflict
	case errors.Is(err, ErrHardwareUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrExternalSink):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Body es el cuerpo JSON de error que devuelven los handlers.
type Body struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Capability string `json:"capability,omitempty"`
}

func BodyOf(err error) Body {
	return Body{Error: Code(err), Message: err.Error()}
}
