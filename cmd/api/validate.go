package main

import (
	"errors"
	"fmt"
	"time"

	"mappo-toolkit/internal/domain/schedule"
	"mappo-toolkit/internal/platform/config"

	"github.com/spf13/cobra"
)

func newValidateScheduleCmd(configPath *string) *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "validate-schedule <title> <start>",
		Short: "Valida un evento como lo haría el formulario de agenda",
		Example: `  mappo validate-schedule "Tour" "2024-03-10 10:00" --location Plaza`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			req, err := schedule.NewValidator(cfg.CalendarLocation).Validate(args[0], location, args[1])
			if err != nil {
				var re *schedule.RejectionError
				if errors.As(err, &re) {
					return fmt.Errorf("rejected (%s): %w", re.Reason, err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "title:    %s\n", req.Title)
			if req.Location != "" {
				fmt.Fprintf(out, "location: %s\n", req.Location)
			}
			fmt.Fprintf(out, "start:    %s\n", req.Start.Format(time.RFC3339))
			fmt.Fprintf(out, "end:      %s\n", req.End.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Lugar del evento")

	return cmd
}
