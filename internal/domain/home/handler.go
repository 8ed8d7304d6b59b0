package home

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"mappo-toolkit/internal/domain/photos"

	"github.com/go-chi/chi/v5"
)

type ServiceLookup interface {
	HomeService(ctx context.Context) (*Service, error)
}

func RegisterRoutes(r chi.Router, services ServiceLookup) {
	r.Route("/home", func(hr chi.Router) {
		hr.Get("/", overviewHandler(services))
		hr.Delete("/photos/{photoID}", removePhotoHandler(services))
	})
}

type photoResponse struct {
	ID         string    `json:"id"`
	URI        string    `json:"uri"`
	CapturedAt time.Time `json:"captured_at"`
}

type upcomingResponse struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type overviewResponse struct {
	Photos   []photoResponse    `json:"photos"`
	Upcoming []upcomingResponse `json:"upcoming"`
}

// overviewHandler godoc
// @Summary Pantalla de inicio
// @Description Fotos (más reciente primero) y hasta 3 próximos eventos. refresh=true vuelve a consultar el calendario.
// @Tags home
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Param refresh query bool false "Refrescar eventos"
// @Success 200 {object} overviewResponse
// @Router /home [get]
func overviewHandler(services ServiceLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, services)
		if !ok {
			return
		}

		refresh := false
		if raw := r.URL.Query().Get("refresh"); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				http.Error(w, "invalid refresh", http.StatusBadRequest)
				return
			}
			refresh = b
		}

		ov := s.Overview(r.Context(), refresh)
		out := overviewResponse{
			Photos:   make([]photoResponse, 0, len(ov.Photos)),
			Upcoming: make([]upcomingResponse, 0, len(ov.Upcoming)),
		}
		for _, p := range ov.Photos {
			out.Photos = append(out.Photos, photoResponse{ID: p.ID, URI: p.URI, CapturedAt: p.CapturedAt})
		}
		for _, e := range ov.Upcoming {
			out.Upcoming = append(out.Upcoming, upcomingResponse{
				ID:       e.ID,
				Title:    e.Title,
				Location: e.Location,
				Start:    e.Start,
				End:      e.End,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func removePhotoHandler(services ServiceLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(w, r, services)
		if !ok {
			return
		}

		if err := s.RemovePhoto(chi.URLParam(r, "photoID")); err != nil {
			if errors.Is(err, photos.ErrNotFound) {
				http.Error(w, "photo not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func lookup(w http.ResponseWriter, r *http.Request, services ServiceLookup) (*Service, bool) {
	s, err := services.HomeService(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return s, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
