package schedule

import (
	"fmt"
	"time"

	"mappo-toolkit/internal/domain/failures"
)

// InputLayout es la gramática aceptada: fecha y hora 24h separadas por espacio.
const InputLayout = "2006-01-02 15:04"

// Duration es fija; no la configura el usuario.
const Duration = 90 * time.Minute

type Request struct {
	Title      string
	Location   string
	Start      time.Time
	End        time.Time
	CalendarID string
}

type Reason string

const (
	ReasonMissingTitle       Reason = "missing_title"
	ReasonInvalidDateTime    Reason = "invalid_date_time"
	ReasonNoWritableCalendar Reason = "no_writable_calendar"
)

// RejectionError se resuelve con errors.Is contra failures.ErrInvalidInput
// (MissingTitle, InvalidDateTime) o failures.ErrExternalSink (NoWritableCalendar).
type RejectionError struct {
	Reason Reason
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func (e *RejectionError) Unwrap() error {
	if e.Reason == ReasonNoWritableCalendar {
		return failures.ErrExternalSink
	}
	return failures.ErrInvalidInput
}

func reject(r Reason, detail string) error {
	return &RejectionError{Reason: r, Detail: detail}
}
