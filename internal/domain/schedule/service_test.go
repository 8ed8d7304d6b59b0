package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/domain/handoff"
	"mappo-toolkit/internal/domain/permissions"
	"mappo-toolkit/internal/ports/calendar"
	portperm "mappo-toolkit/internal/ports/permissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGate struct {
	deny  bool
	calls int
}

func (g *fakeGate) Ensure(_ context.Context, c portperm.Capability) (permissions.Status, error) {
	g.calls++
	if g.deny {
		return permissions.StatusDenied, &permissions.PermissionError{Capability: c}
	}
	return permissions.StatusGranted, nil
}

type fakeCalendars struct {
	cals      []calendar.Calendar
	createErr error
	listCalls int
	created   []calendar.EventInput
	events    []calendar.Event
}

func (f *fakeCalendars) ListCalendars(context.Context) ([]calendar.Calendar, error) {
	f.listCalls++
	return f.cals, nil
}

func (f *fakeCalendars) CreateEvent(_ context.Context, calendarID string, in calendar.EventInput) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, in)
	id := "ev-" + in.Title
	f.events = append(f.events, calendar.Event{ID: id, CalendarID: calendarID, Title: in.Title, Start: in.Start, End: in.End})
	return id, nil
}

func (f *fakeCalendars) ListEvents(_ context.Context, _ string, from, to time.Time) ([]calendar.Event, error) {
	var out []calendar.Event
	for i := len(f.events) - 1; i >= 0; i-- {
		e := f.events[i]
		if !e.Start.Before(from) && !e.Start.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(gate *fakeGate, cals *fakeCalendars, strict bool) *Service {
	return NewService(Deps{
		Gate:           gate,
		Calendars:      cals,
		Handoff:        handoff.NewService(handoff.Sinks{Calendar: cals}, nil),
		Validator:      NewValidator(time.UTC),
		StrictWritable: strict,
		Notes:          "Created with Mappo Toolkit.",
		Now:            func() time.Time { return now },
	})
}

func TestSchedule_InsertsIntoModifiableCalendar(t *testing.T) {
	cals := &fakeCalendars{cals: []calendar.Calendar{
		{ID: "holidays"},
		{ID: "personal", Modifiable: true},
	}}
	s := newTestService(&fakeGate{}, cals, false)

	out, err := s.Schedule(context.Background(), "Tour", "Plaza", "2024-03-10 10:00")
	require.NoError(t, err)
	assert.Equal(t, "ev-Tour", out.EventID)
	assert.Equal(t, "personal", out.Request.CalendarID)
	require.Len(t, cals.created, 1)
	assert.Equal(t, "Created with Mappo Toolkit.", cals.created[0].Notes)
	assert.Equal(t, 90*time.Minute, cals.created[0].End.Sub(cals.created[0].Start))

	// la lista de próximos se refrescó
	require.Len(t, s.Cached(), 1)
	assert.Equal(t, "personal", s.CalendarID())
}

func TestSchedule_ValidatesBeforePermission(t *testing.T) {
	gate := &fakeGate{}
	cals := &fakeCalendars{cals: []calendar.Calendar{{ID: "personal", Modifiable: true}}}
	s := newTestService(gate, cals, false)

	_, err := s.Schedule(context.Background(), "", "Plaza", "2024-03-10 10:00")
	assert.True(t, errors.Is(err, failures.ErrInvalidInput))
	assert.Equal(t, 0, gate.calls)
	assert.Equal(t, 0, cals.listCalls)
}

func TestSchedule_PermissionDenied(t *testing.T) {
	cals := &fakeCalendars{cals: []calendar.Calendar{{ID: "personal", Modifiable: true}}}
	s := newTestService(&fakeGate{deny: true}, cals, false)

	_, err := s.Schedule(context.Background(), "Tour", "", "2024-03-10 10:00")
	assert.True(t, errors.Is(err, failures.ErrPermissionDenied))
	assert.Empty(t, cals.created)
}

func TestSchedule_NoWritableCalendarInStrictMode(t *testing.T) {
	cals := &fakeCalendars{cals: []calendar.Calendar{{ID: "holidays"}}}
	s := newTestService(&fakeGate{}, cals, true)

	_, err := s.Schedule(context.Background(), "Tour", "", "2024-03-10 10:00")
	var re *RejectionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ReasonNoWritableCalendar, re.Reason)
	assert.Empty(t, cals.created)
}

func TestSchedule_InsertFailureIsSurfaced(t *testing.T) {
	cals := &fakeCalendars{
		cals:      []calendar.Calendar{{ID: "personal", Modifiable: true}},
		createErr: errors.New("provider rejected event"),
	}
	s := newTestService(&fakeGate{}, cals, false)

	_, err := s.Schedule(context.Background(), "Tour", "", "2024-03-10 10:00")
	assert.True(t, errors.Is(err, failures.ErrExternalSink))
	assert.Empty(t, s.Cached())
}

func TestSchedule_CalendarResolvedOnce(t *testing.T) {
	cals := &fakeCalendars{cals: []calendar.Calendar{{ID: "personal", Modifiable: true}}}
	s := newTestService(&fakeGate{}, cals, false)
	ctx := context.Background()

	for _, d := range []string{"2024-03-10 10:00", "2024-03-05 08:00"} {
		_, err := s.Schedule(ctx, "Tour "+d, "", d)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, cals.listCalls)

	evs, err := s.Upcoming(ctx)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.True(t, evs[0].Start.Before(evs[1].Start))
}
