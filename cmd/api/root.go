package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mappo",
		Short: "Mappo Toolkit: cámara, escáner, calendario y comunicaciones detrás de permisos",
		Long: `Mappo Toolkit expone las capacidades del dispositivo (cámara, escáner QR,
calendario, llamadas/SMS/WhatsApp) como sesiones con permisos verificados una
vez por activación.

La configuración sale de mappo.yaml (opcional), variables MAPPO_* y .env.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env es opcional
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Archivo de configuración (default: ./mappo.*)")

	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newValidateScheduleCmd(&configPath))

	return cmd
}
