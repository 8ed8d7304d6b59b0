package comms

import (
	"context"
	"encoding/json"
	"net/http"

	"mappo-toolkit/internal/domain/failures"
	"mappo-toolkit/internal/domain/handoff"

	"github.com/go-chi/chi/v5"
)

type ServiceLookup interface {
	CommsService(ctx context.Context) (*Service, error)
}

func RegisterRoutes(r chi.Router, services ServiceLookup) {
	r.Route("/comms", func(cr chi.Router) {
		cr.Post("/call", callHandler(services))
		cr.Post("/sms", smsHandler(services))
		cr.Post("/whatsapp", whatsAppHandler(services))
	})
}

type contactRequest struct {
	Number  string `json:"number"`
	Message string `json:"message,omitempty"`
}

type linkResponse struct {
	Status       handoff.Status `json:"status"`
	Reason       handoff.Reason `json:"reason,omitempty"`
	OpenedURL    string         `json:"opened_url,omitempty"`
	UsedFallback bool           `json:"used_fallback,omitempty"`
	Error        *failures.Body `json:"error,omitempty"`
}

// callHandler godoc
// @Summary Llamar
// @Tags comms
// @Accept json
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Param payload body contactRequest true "Número"
// @Success 200 {object} linkResponse
// @Failure 400 {object} failures.Body
// @Failure 502 {object} linkResponse
// @Router /comms/call [post]
func callHandler(services ServiceLookup) http.HandlerFunc {
	return contactHandler(services, func(ctx context.Context, s *Service, req contactRequest) (handoff.Result, error) {
		return s.Call(ctx, req.Number)
	})
}

func smsHandler(services ServiceLookup) http.HandlerFunc {
	return contactHandler(services, func(ctx context.Context, s *Service, req contactRequest) (handoff.Result, error) {
		return s.SMS(ctx, req.Number, req.Message)
	})
}

// whatsAppHandler godoc
// @Summary Abrir WhatsApp
// @Description Intenta whatsapp:// y, si no se puede abrir, una vez https://wa.me.
// @Tags comms
// @Accept json
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Param payload body contactRequest true "Número y mensaje"
// @Success 200 {object} linkResponse
// @Failure 502 {object} linkResponse
// @Router /comms/whatsapp [post]
func whatsAppHandler(services ServiceLookup) http.HandlerFunc {
	return contactHandler(services, func(ctx context.Context, s *Service, req contactRequest) (handoff.Result, error) {
		return s.WhatsApp(ctx, req.Number, req.Message)
	})
}

type contactFunc func(ctx context.Context, s *Service, req contactRequest) (handoff.Result, error)

func contactHandler(services ServiceLookup, fn contactFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := services.CommsService(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req contactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := fn(r.Context(), s, req)
		if err != nil && res.Status == "" {
			// rechazado antes de intentar abrir
			writeJSON(w, failures.HTTPStatus(err), failures.BodyOf(err))
			return
		}

		out := linkResponse{
			Status:       res.Status,
			Reason:       res.Reason,
			OpenedURL:    res.OpenedURL,
			UsedFallback: res.UsedFallback,
		}
		status := http.StatusOK
		if err != nil {
			b := failures.BodyOf(err)
			out.Error = &b
			status = failures.HTTPStatus(err)
		}
		writeJSON(w, status, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
