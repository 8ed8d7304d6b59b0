package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mappo-toolkit/internal/adapters/device/bridge"
	pg "mappo-toolkit/internal/adapters/storage/postgres"
	"mappo-toolkit/internal/platform/config"
	"mappo-toolkit/internal/platform/logger"
	"mappo-toolkit/internal/router"
	"mappo-toolkit/internal/toolkit"

	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP del toolkit",
		Long: `Levanta la API HTTP. Sin bridge_url cada dispositivo usa puertos simulados;
sin db_dsn el calendario y la galería quedan en memoria.`,
		Example: `  # Modo dev: dispositivo simulado, todo en memoria
  mappo serve

  # Contra el puente nativo y Postgres
  MAPPO_BRIDGE_URL=http://127.0.0.1:7777 MAPPO_DB_DSN=postgres://... mappo serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			log := logger.New(logger.Options{
				Level:  logger.ParseLevel(cfg.LogLevel),
				Format: logger.ParseFormat(cfg.LogFormat),
				App:    cfg.AppName,
				Output: cmd.OutOrStdout(),
			})

			factory := toolkit.SimulatedPorts()
			if cfg.BridgeURL != "" {
				bc, err := bridge.NewClient(bridge.Config{BaseURL: cfg.BridgeURL, Timeout: cfg.BridgeTimeout})
				if err != nil {
					return err
				}
				factory = toolkit.BridgePorts(bc)
				log.Info("using device bridge", map[string]any{"url": cfg.BridgeURL})
			}

			if cfg.DBDSN != "" {
				db, err := pg.Open(cfg.DBDSN)
				if err != nil {
					return err
				}
				defer db.Close()
				factory = toolkit.WithPostgres(factory, db)
				log.Info("using postgres storage", nil)
			}

			reg := toolkit.NewRegistry(factory, toolkit.SettingsFromConfig(cfg), log)

			server := &http.Server{
				Addr:         cfg.Addr,
				Handler:      router.NewRouter(router.Options{Registry: reg, Logger: log}),
				ReadTimeout:  5 * time.Second,
				WriteTimeout: cfg.BridgeTimeout + 10*time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				log.Info("starting server", map[string]any{"addr": cfg.Addr})
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				log.Info("shutting down server", nil)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					log.Error("server shutdown failed", map[string]any{"error": err})
					return err
				}
				log.Info("server stopped", nil)
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Dirección de escucha (pisa addr de la config)")

	return cmd
}
