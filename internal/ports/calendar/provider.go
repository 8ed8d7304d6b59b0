package calendar

import (
	"context"
	"time"
)

// Provider es el calendario del dispositivo (o un store equivalente).
type Provider interface {
	ListCalendars(ctx context.Context) ([]Calendar, error)
	CreateEvent(ctx context.Context, calendarID string, in EventInput) (string, error)
	ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error)
}
