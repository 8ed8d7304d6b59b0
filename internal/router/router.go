package router

import (
	"net/http"

	_ "mappo-toolkit/internal/docs"
	"mappo-toolkit/internal/domain/capture"
	"mappo-toolkit/internal/domain/comms"
	"mappo-toolkit/internal/domain/home"
	"mappo-toolkit/internal/domain/permissions"
	"mappo-toolkit/internal/domain/scan"
	"mappo-toolkit/internal/domain/schedule"
	"mappo-toolkit/internal/middleware"
	"mappo-toolkit/internal/platform/logger"
	"mappo-toolkit/internal/toolkit"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si no viene, cada dispositivo usa puertos simulados en memoria.
	Registry *toolkit.Registry

	Logger logger.Logger
}

// @title Mappo Toolkit API
// @version 1.0
// @description Cámara, escáner, calendario y comunicaciones detrás de permisos por dispositivo.
// @BasePath /
func NewRouter(opts Options) http.Handler {
	log := logger.OrNop(opts.Logger)

	reg := opts.Registry
	if reg == nil {
		reg = toolkit.NewRegistry(toolkit.SimulatedPorts(), toolkit.Settings{}, log)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.DeviceContext)
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo; todas exigen X-Device-ID
	r.Group(func(dr chi.Router) {
		dr.Use(middleware.RequireDevice)

		permissions.RegisterRoutes(dr, reg)
		capture.RegisterRoutes(dr, reg)
		scan.RegisterRoutes(dr, reg)
		schedule.RegisterRoutes(dr, reg)
		comms.RegisterRoutes(dr, reg)
		home.RegisterRoutes(dr, reg)
	})

	return r
}
