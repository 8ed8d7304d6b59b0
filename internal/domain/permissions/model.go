package permissions

import (
	"fmt"

	"mappo-toolkit/internal/domain/failures"
	ports "mappo-toolkit/internal/ports/permissions"
)

type Status string

const (
	StatusUnknown Status = "unknown"
	StatusGranted Status = "granted"
	StatusDenied  Status = "denied"
)

func statusOf(granted bool) Status {
	if granted {
		return StatusGranted
	}
	return StatusDenied
}

// PermissionError indica qué capability falta. Unwrap => failures.ErrPermissionDenied.
type PermissionError struct {
	Capability ports.Capability
	Cause      error
}

func (e *PermissionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", failures.ErrPermissionDenied, e.Capability, e.Cause)
	}
	return fmt.Sprintf("%s: %s", failures.ErrPermissionDenied, e.Capability)
}

func (e *PermissionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{failures.ErrPermissionDenied, e.Cause}
	}
	return []error{failures.ErrPermissionDenied}
}
