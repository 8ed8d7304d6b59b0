package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"mappo-toolkit/internal/ports/calendar"

	"github.com/google/uuid"
)

// CalendarRepo implementa calendar.Provider para un dispositivo.
type CalendarRepo struct {
	db       *sql.DB
	deviceID string
}

func NewCalendarRepo(db *sql.DB, deviceID string) *CalendarRepo {
	return &CalendarRepo{db: db, deviceID: strings.TrimSpace(deviceID)}
}

// EnsureDefaultCalendar crea un calendario local modificable si el dispositivo no tiene ninguno.
func (r *CalendarRepo) EnsureDefaultCalendar(ctx context.Context) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM calendars WHERE device_id = $1`, r.deviceID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calendars (id, device_id, title, modifiable)
		VALUES ($1, $2, $3, TRUE)
	`, uuid.NewString(), r.deviceID, "Local")
	return err
}

func (r *CalendarRepo) ListCalendars(ctx context.Context) ([]calendar.Calendar, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, modifiable
		FROM calendars
		WHERE device_id = $1
		ORDER BY created_at ASC
	`, r.deviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]calendar.Calendar, 0)
	for rows.Next() {
		var c calendar.Calendar
		if err := rows.Scan(&c.ID, &c.Title, &c.Modifiable); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CalendarRepo) CreateEvent(ctx context.Context, calendarID string, in calendar.EventInput) (string, error) {
	var modifiable bool
	err := r.db.QueryRowContext(ctx, `
		SELECT modifiable FROM calendars WHERE id = $1 AND device_id = $2
	`, calendarID, r.deviceID).Scan(&modifiable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !modifiable {
		return "", errors.New("calendar is read-only")
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO calendar_events (
			id, calendar_id,
			title, location, notes,
			starts_at, ends_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		id,
		calendarID,
		in.Title,
		in.Location,
		in.Notes,
		in.Start.UTC(),
		in.End.UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *CalendarRepo) ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]calendar.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.calendar_id, e.title, e.location, e.starts_at, e.ends_at
		FROM calendar_events e
		JOIN calendars c ON c.id = e.calendar_id
		WHERE e.calendar_id = $1
		  AND c.device_id = $2
		  AND e.starts_at BETWEEN $3 AND $4
		ORDER BY e.starts_at ASC
	`, calendarID, r.deviceID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]calendar.Event, 0)
	for rows.Next() {
		var e calendar.Event
		if err := rows.Scan(&e.ID, &e.CalendarID, &e.Title, &e.Location, &e.Start, &e.End); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
