package handoff

import (
	"mappo-toolkit/internal/ports/calendar"
)

type Kind string

const (
	KindGallerySave    Kind = "gallery_save"
	KindCalendarInsert Kind = "calendar_insert"
	KindLinkOpen       Kind = "link_open"
)

type Status string

const (
	StatusDelivered      Status = "delivered"
	StatusPartialFailure Status = "partial_failure"
	StatusFailed         Status = "failed"
)

type Reason string

const (
	ReasonNone        Reason = ""
	ReasonUnsupported Reason = "unsupported"
	ReasonSinkError   Reason = "sink_error"
	ReasonBadPayload  Reason = "bad_payload"
	ReasonNoSink      Reason = "no_sink"
)

// Payload lleva sólo los campos del Kind correspondiente.
type Payload struct {
	// GallerySave
	URI string

	// CalendarInsert
	CalendarID string
	Event      calendar.EventInput

	// LinkOpen. FallbackURL se intenta una sola vez si URL falla.
	URL         string
	FallbackURL string
}

type Result struct {
	Kind   Kind
	Status Status
	Reason Reason
	Detail string
	Err    error

	EventID      string
	OpenedURL    string
	UsedFallback bool
}

func (r Result) Delivered() bool { return r.Status == StatusDelivered }

// Usable indica si el artefacto puede seguir su curso en la app
// (Delivered o PartialFailure).
func (r Result) Usable() bool { return r.Status != StatusFailed }
