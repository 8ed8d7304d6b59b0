package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/domain/handoff"
	"mappo-toolkit/internal/domain/permissions"
	"mappo-toolkit/internal/platform/logger"
	"mappo-toolkit/internal/ports/calendar"
	portperm "mappo-toolkit/internal/ports/permissions"
)

const DefaultUpcomingWindow = 30 * 24 * time.Hour

type PermissionGate interface {
	Ensure(ctx context.Context, c portperm.Capability) (permissions.Status, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, kind handoff.Kind, p handoff.Payload) handoff.Result
}

type Deps struct {
	Gate      PermissionGate
	Calendars calendar.Provider
	Handoff   Deliverer
	Validator Validator

	StrictWritable bool
	Notes          string
	Window         time.Duration
	Now            func() time.Time
	Log            logger.Logger
}

// Scheduled es el resultado de agendar: el request final y el id del evento.
type Scheduled struct {
	Request Request
	EventID string
}

type Service struct {
	gate      PermissionGate
	calendars calendar.Provider
	handoff   Deliverer
	validator Validator
	strict    bool
	notes     string
	window    time.Duration
	now       func() time.Time
	log       logger.Logger

	mu         sync.Mutex
	calendarID string
	upcoming   []calendar.Event
}

func NewService(d Deps) *Service {
	s := &Service{
		gate:      d.Gate,
		calendars: d.Calendars,
		handoff:   d.Handoff,
		validator: d.Validator,
		strict:    d.StrictWritable,
		notes:     d.Notes,
		window:    d.Window,
		now:       d.Now,
		log:       logger.OrNop(d.Log).With(map[string]any{"component": "schedule"}),
	}
	if s.validator.loc == nil {
		s.validator = NewValidator(time.Local)
	}
	if s.window <= 0 {
		s.window = DefaultUpcomingWindow
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Validate(title, location, rawStart string) (Request, error) {
	return s.validator.Validate(title, location, rawStart)
}

// Schedule valida antes de cualquier I/O, luego pide permiso, resuelve el
// calendario destino e inserta. Una falla de inserción es terminal para este
// intento: el caller vuelve a pedirle al usuario.
func (s *Service) Schedule(ctx context.Context, title, location, rawStart string) (Scheduled, error) {
	req, err := s.validator.Validate(title, location, rawStart)
	if err != nil {
		return Scheduled{}, err
	}

	if _, err := s.gate.Ensure(ctx, portperm.Calendar); err != nil {
		return Scheduled{}, err
	}

	calID, err := s.resolveCalendar(ctx)
	if err != nil {
		return Scheduled{}, err
	}
	req.CalendarID = calID

	res := s.handoff.Deliver(ctx, handoff.KindCalendarInsert, handoff.Payload{
		CalendarID: calID,
		Event: calendar.EventInput{
			Title:    req.Title,
			Location: req.Location,
			Start:    req.Start,
			End:      req.End,
			Notes:    s.notes,
		},
	})
	if !res.Delivered() {
		return Scheduled{}, res.Err
	}

	s.log.Info("event scheduled", map[string]any{"calendar_id": calID, "event_id": res.EventID})

	// refresco best-effort; el evento ya quedó creado
	if _, err := s.Upcoming(ctx); err != nil {
		s.log.Warn("upcoming refresh failed", map[string]any{"error": err})
	}

	return Scheduled{Request: req, EventID: res.EventID}, nil
}

// Upcoming lista los eventos de la ventana configurada, ordenados por inicio.
func (s *Service) Upcoming(ctx context.Context) ([]calendar.Event, error) {
	if _, err := s.gate.Ensure(ctx, portperm.Calendar); err != nil {
		return nil, err
	}
	calID, err := s.resolveCalendar(ctx)
	if err != nil {
		return nil, err
	}

	from := s.now()
	evs, err := s.calendars.ListEvents(ctx, calID, from, from.Add(s.window))
	if err != nil {
		return nil, fmt.Errorf("%w: list events: %v", failures.ErrExternalSink, err)
	}
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].Start.Before(evs[j].Start) })

	s.mu.Lock()
	s.upcoming = append([]calendar.Event(nil), evs...)
	s.mu.Unlock()
	return evs, nil
}

// Cached devuelve la última lista obtenida por Upcoming, sin I/O.
func (s *Service) Cached() []calendar.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]calendar.Event(nil), s.upcoming...)
}

func (s *Service) CalendarID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calendarID
}

func (s *Service) resolveCalendar(ctx context.Context) (string, error) {
	s.mu.Lock()
	id := s.calendarID
	s.mu.Unlock()
	if id != "" {
		return id, nil
	}

	cals, err := s.calendars.ListCalendars(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: list calendars: %v", failures.ErrExternalSink, err)
	}
	picked, err := PickCalendar(cals, s.strict)
	if err != nil {
		return "", err
	}
	if !picked.Modifiable {
		s.log.Warn("no modifiable calendar, using first listed", map[string]any{"calendar_id": picked.ID})
	}

	s.mu.Lock()
	s.calendarID = picked.ID
	s.mu.Unlock()
	return picked.ID, nil
}
