package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tempoworks/timesheet-system/internal/pkg/config"
	"github.com/tempoworks/timesheet-system/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "timesheet-api",
		Short:        "Timesheet System",
		Long:         `Weekly timesheets, project tracking and utilization reporting.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newCreateAdminCmd())
	return root
}

// bootstrap loads the environment configuration and initialises the logger.
func bootstrap(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})
	return cfg, log, nil
}
