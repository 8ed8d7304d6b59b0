package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"mappo-toolkit/internal/ports/calendar"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
)

// DefaultCalendar es el calendario local que se siembra si no se pasa ninguno.
var DefaultCalendar = calendar.Calendar{ID: "local", Title: "Local", Modifiable: true}

type calendarRepo struct {
	mu        sync.RWMutex
	calendars []calendar.Calendar
	events    map[string][]calendar.Event // por calendarID
}

// NewCalendarRepo implementa calendar.Provider en memoria.
func NewCalendarRepo(cals ...calendar.Calendar) calendar.Provider {
	if len(cals) == 0 {
		cals = []calendar.Calendar{DefaultCalendar}
	}
	return &calendarRepo{
		calendars: append([]calendar.Calendar(nil), cals...),
		events:    map[string][]calendar.Event{},
	}
}

func (r *calendarRepo) ListCalendars(ctx context.Context) ([]calendar.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]calendar.Calendar(nil), r.calendars...), nil
}

func (r *calendarRepo) CreateEvent(ctx context.Context, calendarID string, in calendar.EventInput) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cal, ok := r.findLocked(calendarID)
	if !ok {
		return "", ErrNotFound
	}
	if !cal.Modifiable {
		return "", errors.New("calendar is read-only")
	}
	if strings.TrimSpace(in.Title) == "" {
		return "", errors.New("event title required")
	}

	e := calendar.Event{
		ID:         uuid.NewString(),
		CalendarID: calendarID,
		Title:      in.Title,
		Location:   in.Location,
		Start:      in.Start,
		End:        in.End,
	}
	r.events[calendarID] = append(r.events[calendarID], e)
	return e.ID, nil
}

// ListEvents devuelve eventos que empiezan en [from, to], ordenados por inicio.
func (r *calendarRepo) ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]calendar.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.findLocked(calendarID); !ok {
		return nil, ErrNotFound
	}

	out := make([]calendar.Event, 0)
	for _, e := range r.events[calendarID] {
		if e.Start.Before(from) || e.Start.After(to) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

func (r *calendarRepo) findLocked(id string) (calendar.Calendar, bool) {
	for _, c := range r.calendars {
		if c.ID == id {
			return c, true
		}
	}
	return calendar.Calendar{}, false
}
