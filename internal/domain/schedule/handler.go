package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/domain/permissions"
	"mappo-toolkit/internal/ports/calendar"

	"github.com/go-chi/chi/v5"
)

type ServiceLookup interface {
	ScheduleService(ctx context.Context) (*Service, error)
}

func RegisterRoutes(r chi.Router, services ServiceLookup) {
	r.Route("/calendar", func(cr chi.Router) {
		cr.Post("/events", scheduleEventHandler(services))
		cr.Get("/events", listUpcomingHandler(services))
		cr.Post("/validate", validateHandler(services))
	})
}

// scheduleRequest trae los tres campos del formulario tal cual los escribió el usuario.
type scheduleRequest struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Start    string `json:"start"`
}

type requestResponse struct {
	Title      string    `json:"title"`
	Location   string    `json:"location,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	CalendarID string    `json:"calendar_id,omitempty"`
}

type scheduledResponse struct {
	EventID string          `json:"event_id"`
	Request requestResponse `json:"request"`
}

type eventResponse struct {
	ID         string    `json:"id"`
	CalendarID string    `json:"calendar_id"`
	Title      string    `json:"title"`
	Location   string    `json:"location,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

type errorResponse struct {
	failures.Body
	Reason Reason `json:"reason,omitempty"`
}

// scheduleEventHandler godoc
// @Summary Agendar evento
// @Description Valida antes de pedir permiso. El evento dura 90 minutos.
// @Tags calendar
// @Accept json
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Param payload body scheduleRequest true "Formulario"
// @Success 201 {object} scheduledResponse
// @Failure 400 {object} errorResponse "missing_title / invalid_date_time"
// @Failure 403 {object} errorResponse
// @Failure 502 {object} errorResponse "no_writable_calendar / inserción fallida"
// @Router /calendar/events [post]
func scheduleEventHandler(services ServiceLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, services)
		if !ok {
			return
		}

		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := s.Schedule(r.Context(), req.Title, req.Location, req.Start)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, scheduledResponse{
			EventID: out.EventID,
			Request: toRequestResponse(out.Request),
		})
	}
}

// listUpcomingHandler godoc
// @Summary Próximos eventos
// @Tags calendar
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Success 200 {array} eventResponse
// @Router /calendar/events [get]
func listUpcomingHandler(services ServiceLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, services)
		if !ok {
			return
		}
		evs, err := s.Upcoming(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]eventResponse, 0, len(evs))
		for _, e := range evs {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// validateHandler sólo corre el validador; no toca permisos ni calendario.
func validateHandler(services ServiceLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, services)
		if !ok {
			return
		}

		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := s.Validate(req.Title, req.Location, req.Start)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func lookup(w http.ResponseWriter, r *http.Request, services ServiceLookup) (*Service, bool) {
	s, err := services.ScheduleService(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return s, true
}

func toRequestResponse(r Request) requestResponse {
	return requestResponse{
		Title:      r.Title,
		Location:   r.Location,
		Start:      r.Start,
		End:        r.End,
		CalendarID: r.CalendarID,
	}
}

func toEventResponse(e calendar.Event) eventResponse {
	return eventResponse{
		ID:         e.ID,
		CalendarID: e.CalendarID,
		Title:      e.Title,
		Location:   e.Location,
		Start:      e.Start,
		End:        e.End,
	}
}

func writeError(w http.ResponseWriter, err error) {
	body := errorResponse{Body: permissions.ErrorBody(err)}
	var re *RejectionError
	if errors.As(err, &re) {
		body.Reason = re.Reason
	}
	writeJSON(w, failures.HTTPStatus(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
