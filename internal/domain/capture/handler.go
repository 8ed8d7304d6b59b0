package capture

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/domain/handoff"
	"mappo-toolkit/internal/domain/permissions"
	"mappo-toolkit/internal/domain/photos"

	"github.com/go-chi/chi/v5"
)

// SessionLookup resuelve la sesión de cámara del dispositivo del request.
type SessionLookup interface {
	CaptureSession(ctx context.Context) (*Session, error)
}

func RegisterRoutes(r chi.Router, sessions SessionLookup) {
	r.Route("/camera", func(cr chi.Router) {
		cr.Get("/", getSessionHandler(sessions))
		cr.Post("/activate", activateHandler(sessions))
		cr.Post("/capture", captureHandler(sessions))
		cr.Post("/discard", discardHandler(sessions))
		cr.Post("/confirm", confirmHandler(sessions))
		cr.Post("/deactivate", deactivateHandler(sessions))
	})
}

type artifactResponse struct {
	ID         string    `json:"id"`
	URI        string    `json:"uri"`
	CapturedAt time.Time `json:"captured_at"`
}

type handoffResponse struct {
	Status handoff.Status `json:"status"`
	Reason handoff.Reason `json:"reason,omitempty"`
	Detail string         `json:"detail,omitempty"`
}

// sessionResponse es el estado de la cámara para la UI.
type sessionResponse struct {
	State       State             `json:"state"`
	Preview     *artifactResponse `json:"preview,omitempty"`
	Pending     string            `json:"pending,omitempty"`
	LastError   *failures.Body    `json:"last_error,omitempty"`
	LastGallery *handoffResponse  `json:"last_gallery,omitempty"`
}

type confirmResponse struct {
	Photo   artifactResponse `json:"photo"`
	Gallery handoffResponse  `json:"gallery"`
}

// getSessionHandler godoc
// @Summary Estado de la sesión de cámara
// @Tags camera
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Success 200 {object} sessionResponse
// @Router /camera [get]
func getSessionHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(s.Snapshot()))
	}
}

// activateHandler godoc
// @Summary Activar la cámara
// @Description Requiere permisos de cámara y galería. Si falta alguno, la sesión queda en idle y se informa cuál.
// @Tags camera
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Success 200 {object} sessionResponse
// @Failure 403 {object} failures.Body "permiso denegado"
// @Failure 409 {object} failures.Body "operación en curso"
// @Router /camera/activate [post]
func activateHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		if err := s.Activate(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(s.Snapshot()))
	}
}

// captureHandler godoc
// @Summary Tomar foto
// @Tags camera
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Success 200 {object} artifactResponse
// @Failure 409 {object} failures.Body "estado inválido / cancelada"
// @Failure 503 {object} failures.Body "hardware no disponible"
// @Router /camera/capture [post]
func captureHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		a, err := s.Capture(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toArtifactResponse(a))
	}
}

func discardHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		if err := s.Discard(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(s.Snapshot()))
	}
}

// confirmHandler godoc
// @Summary Confirmar la vista previa
// @Description Guarda en la galería (best-effort) y agrega la foto a Inicio. Una falla de galería se informa como partial_failure.
// @Tags camera
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Success 200 {object} confirmResponse
// @Failure 409 {object} failures.Body
// @Router /camera/confirm [post]
func confirmHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		c, err := s.Confirm(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, confirmResponse{
			Photo:   toArtifactResponse(c.Artifact),
			Gallery: toHandoffResponse(c.Gallery),
		})
	}
}

func deactivateHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		s.Deactivate()
		writeJSON(w, http.StatusOK, toSessionResponse(s.Snapshot()))
	}
}

func lookup(w http.ResponseWriter, r *http.Request, sessions SessionLookup) (*Session, bool) {
	s, err := sessions.CaptureSession(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return s, true
}

func toSessionResponse(snap Snapshot) sessionResponse {
	out := sessionResponse{
		State:   snap.State,
		Pending: snap.Pending,
	}
	if snap.Preview != nil {
		a := toArtifactResponse(*snap.Preview)
		out.Preview = &a
	}
	if snap.LastError != nil {
		b := permissions.ErrorBody(snap.LastError)
		out.LastError = &b
	}
	if snap.LastGallery != nil {
		g := toHandoffResponse(*snap.LastGallery)
		out.LastGallery = &g
	}
	return out
}

func toArtifactResponse(a photos.Artifact) artifactResponse {
	return artifactResponse{ID: a.ID, URI: a.URI, CapturedAt: a.CapturedAt}
}

func toHandoffResponse(r handoff.Result) handoffResponse {
	return handoffResponse{Status: r.Status, Reason: r.Reason, Detail: r.Detail}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, failures.HTTPStatus(err), permissions.ErrorBody(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
