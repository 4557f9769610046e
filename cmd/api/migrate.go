package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/config"
	"github.com/sanosuguru/go-venue-booking/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "データベースマイグレーションを実行する",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(postgres.MigrateUp), string(postgres.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) > 0 {
				arg = args[0]
			}
			direction, err := postgres.ParseMigrateDirection(arg)
			if err != nil {
				return err
			}

			cfg := config.Load()
			db, err := postgres.NewConnection(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(db.DB, cfg.Database.MigrationsPath, direction); err != nil {
				return err
			}
			logger.Info("マイグレーション完了",
				zap.String("direction", string(direction)),
				zap.String("path", cfg.Database.MigrationsPath),
			)
			return nil
		},
	}
}
