package permissions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mappo-toolkit/internal/domain/failures"
	ports "mappo-toolkit/internal/ports/permissions"

	"github.com/go-chi/chi/v5"
)

// GateLookup resuelve el gate del dispositivo del request.
type GateLookup interface {
	PermissionGate(ctx context.Context) (*Gate, error)
}

func RegisterRoutes(r chi.Router, gates GateLookup) {
	r.Route("/permissions", func(pr chi.Router) {
		pr.Get("/", listPermissionsHandler(gates))
		pr.Post("/{capability}/ensure", ensurePermissionHandler(gates))
		pr.Post("/{capability}/refresh", refreshPermissionHandler(gates))
	})
}

type permissionResponse struct {
	Capability ports.Capability `json:"capability"`
	Status     Status           `json:"status"`
}

// listPermissionsHandler godoc
// @Summary Estado cacheado de permisos
// @Tags permissions
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Success 200 {array} permissionResponse
// @Router /permissions [get]
func listPermissionsHandler(gates GateLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := gates.PermissionGate(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		snap := g.Snapshot()
		out := make([]permissionResponse, 0, len(snap))
		for _, c := range ports.All() {
			out = append(out, permissionResponse{Capability: c, Status: snap[c]})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ensurePermissionHandler godoc
// @Summary Chequear o pedir un permiso
// @Description Si ya está concedido no abre diálogo. Si no, pide una sola vez.
// @Tags permissions
// @Produce json
// @Param X-Device-ID header string true "ID del dispositivo"
// @Param capability path string true "camera | media_library | calendar | scanner"
// @Success 200 {object} permissionResponse
// @Failure 403 {object} failures.Body
// @Router /permissions/{capability}/ensure [post]
func ensurePermissionHandler(gates GateLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, c, ok := resolve(w, r, gates)
		if !ok {
			return
		}
		st, err := g.Ensure(r.Context(), c)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, permissionResponse{Capability: c, Status: st})
	}
}

func refreshPermissionHandler(gates GateLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, c, ok := resolve(w, r, gates)
		if !ok {
			return
		}
		st, err := g.Refresh(r.Context(), c)
		if err != nil {
			writeError(w, failures.Wrap(failures.ErrExternalSink, err))
			return
		}
		writeJSON(w, http.StatusOK, permissionResponse{Capability: c, Status: st})
	}
}

func resolve(w http.ResponseWriter, r *http.Request, gates GateLookup) (*Gate, ports.Capability, bool) {
	g, err := gates.PermissionGate(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	c, err := ports.ParseCapability(chi.URLParam(r, "capability"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, "", false
	}
	return g, c, true
}

// ErrorBody agrega la capability faltante cuando el error es de permisos.
func ErrorBody(err error) failures.Body {
	b := failures.BodyOf(err)
	var pe *PermissionError
	if errors.As(err, &pe) {
		b.Capability = string(pe.Capability)
	}
	return b
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, failures.HTTPStatus(err), ErrorBody(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
