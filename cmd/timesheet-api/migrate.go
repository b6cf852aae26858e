package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tempoworks/timesheet-system/internal/infrastructure/db/mongo"
	"github.com/tempoworks/timesheet-system/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the MongoDB indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			log := logger.Component("migrate")

			client, db, err := mongo.Connect(cmd.Context(), mongo.Config{
				URI:      cfg.Mongo.URI,
				Database: cfg.Mongo.Database,
				Timeout:  cfg.Mongo.Timeout,
			})
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background()) //nolint:errcheck

			if err := mongo.EnsureIndexes(cmd.Context(), db); err != nil {
				log.Error().Err(err).Msg("index creation failed")
				return err
			}
			log.Info().Str("database", cfg.Mongo.Database).Msg("indexes are up to date")
			return nil
		},
	}
}
