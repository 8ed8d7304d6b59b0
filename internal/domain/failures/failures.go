// Package failures define la taxonomía de errores compartida por las sesiones
// de capacidades. Cada paquete de dominio envuelve estos sentinels con %w.
package failures

import (
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrHardwareUnavailable = errors.New("hardware unavailable")
	ErrInvalidInput        = errors.New("invalid input")
	ErrExternalSink        = errors.New("external sink failure")
	ErrCancelled           = errors.New("cancelled")

	// Violaciones de orden dentro de una sesión.
	ErrBusy         = errors.New("operation in flight")
	ErrInvalidState = errors.New("invalid state")
)

// Code devuelve un código estable para exponer en la API.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrHardwareUnavailable):
		return "hardware_unavailable"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrExternalSink):
		return "external_sink_failure"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	default:
		return "internal"
	}
}

// Surfaced indica si el error debe mostrarse al usuario.
// Los resultados cancelados se descartan en silencio.
func Surfaced(err error) bool {
	return err != nil && !errors.Is(err, ErrCancelled)
}

// Wrap envuelve err con kind salvo que ya lo contenga.
func Wrap(kind, err error) error {
	if err == nil || errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
