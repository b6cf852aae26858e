package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/tempoworks/timesheet-system/internal/core/ports"
	"github.com/tempoworks/timesheet-system/internal/core/service"
	"github.com/tempoworks/timesheet-system/internal/infrastructure/db/mongo"
	"github.com/tempoworks/timesheet-system/internal/infrastructure/security"
	"github.com/tempoworks/timesheet-system/pkg/logger"
)

func newCreateAdminCmd() *cobra.Command {
	var input ports.RegisterInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an ADMIN account",
		Long:  `Administrators cannot self-register; this command seeds one directly in the store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input.Username == "" || input.Email == "" || input.Password == "" {
				return errors.New("--username, --email and --password are required")
			}
			cfg, _, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			log := logger.Component("admin")

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
				return err
			}

			auth := service.NewAuthService(
				mongo.NewUserRepository(db),
				security.NewBcryptHasher(cfg.BcryptCost),
				security.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
				log,
			)
			user, err := auth.BootstrapAdmin(cmd.Context(), input)
			if err != nil {
				log.Error().Err(err).Str("username", input.Username).Msg("admin creation failed")
				return err
			}
			log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("admin created")
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "admin username")
	cmd.Flags().StringVar(&input.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&input.Password, "password", "", "admin password")
	return cmd
}
