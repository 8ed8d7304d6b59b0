package scan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/domain/handoff"
	"mappo-toolkit/internal/domain/permissions"
	"mappo-toolkit/internal/ports/device"

	"github.com/go-chi/chi/v5"
)

type SessionLookup interface {
	ScanSession(ctx context.Context) (*Session, error)
}

func RegisterRoutes(r chi.Router, sessions SessionLookup) {
	r.Route("/scanner", func(sr chi.Router) {
		sr.Get("/", getScannerHandler(sessions))
		sr.Post("/start", startHandler(sessions))
		sr.Post("/stop", stopHandler(sessions))
		sr.Post("/events", recognitionHandler(sessions))
		sr.Post("/reopen", reopenHandler(sessions))
	})
}

// recognitionRequest es un evento del reconocedor (uno por frame).
type recognitionRequest struct {
	Payload  string `json:"payload"`
	CodeType string `json:"code_type"`
}

type resultResponse struct {
	Payload   string      `json:"payload"`
	CodeType  string      `json:"code_type"`
	ScannedAt time.Time   `json:"scanned_at"`
	Kind      PayloadKind `json:"kind"`
}

type linkResponse struct {
	Status       handoff.Status `json:"status"`
	Reason       handoff.Reason `json:"reason,omitempty"`
	OpenedURL    string         `json:"opened_url,omitempty"`
	Detail       string         `json:"detail,omitempty"`
	UsedFallback bool           `json:"used_fallback,omitempty"`
}

type recognitionResponse struct {
	Accepted bool            `json:"accepted"`
	Result   *resultResponse `json:"result,omitempty"`
	Link     *linkResponse   `json:"link,omitempty"`
}

type scannerResponse struct {
	State       State           `json:"state"`
	LockedUntil *time.Time      `json:"locked_until,omitempty"`
	LastResult  *resultResponse `json:"last_result,omitempty"`
	LastLink    *linkResponse   `json:"last_link,omitempty"`
}

func getScannerHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toScannerResponse(s.Snapshot()))
	}
}

// startHandler godoc
// @Summary Iniciar escáner
// @Description Pide el permiso de cámara si hace falta; sólo entra en scanning si se concede.
// @Tags scanner
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Success 200 {object} scannerResponse
// @Failure 403 {object} failures.Body
// @Router /scanner/start [post]
func startHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		if err := s.Start(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toScannerResponse(s.Snapshot()))
	}
}

func stopHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		s.Stop()
		writeJSON(w, http.StatusOK, toScannerResponse(s.Snapshot()))
	}
}

// recognitionHandler godoc
// @Summary Reportar un código detectado
// @Description El shell reenvía cada frame con código. Durante el bloqueo los eventos se descartan (accepted=false).
// @Tags scanner
// @Accept json
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Param payload body recognitionRequest true "Evento del reconocedor"
// @Success 200 {object} recognitionResponse
// @Router /scanner/events [post]
func recognitionHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}

		var req recognitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, err := s.Handle(r.Context(), device.Recognition{Payload: req.Payload, CodeType: req.CodeType})
		if errors.Is(err, ErrDiscarded) {
			writeJSON(w, http.StatusOK, recognitionResponse{Accepted: false})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}

		res := toResultResponse(rec.Result)
		out := recognitionResponse{Accepted: true, Result: &res}
		if rec.Link != nil {
			l := toLinkResponse(*rec.Link)
			out.Link = &l
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func reopenHandler(sessions SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, sessions)
		if !ok {
			return
		}
		link, err := s.Reopen(r.Context())
		if errors.Is(err, ErrNoResult) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toLinkResponse(link))
	}
}

func lookup(w http.ResponseWriter, r *http.Request, sessions SessionLookup) (*Session, bool) {
	s, err := sessions.ScanSession(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return s, true
}

func toScannerResponse(snap Snapshot) scannerResponse {
	out := scannerResponse{State: snap.State}
	if snap.State == StateLocked {
		t := snap.LockedUntil
		out.LockedUntil = &t
	}
	if snap.LastResult != nil {
		r := toResultResponse(*snap.LastResult)
		out.LastResult = &r
	}
	if snap.LastLink != nil {
		l := toLinkResponse(*snap.LastLink)
		out.LastLink = &l
	}
	return out
}

func toResultResponse(r Result) resultResponse {
	return resultResponse{Payload: r.Payload, CodeType: r.CodeType, ScannedAt: r.ScannedAt, Kind: r.Kind}
}

func toLinkResponse(r handoff.Result) linkResponse {
	return linkResponse{
		Status:       r.Status,
		Reason:       r.Reason,
		OpenedURL:    r.OpenedURL,
		Detail:       r.Detail,
		UsedFallback: r.UsedFallback,
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, failures.HTTPStatus(err), permissions.ErrorBody(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
