package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rahulwaghole14/mandap/internal/infrastructure/database"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify database and Redis connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			db, err := database.Open(cfg.DBDriver, cfg.DSN)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Ping(db); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Database connection successful (%s)\n", cfg.DBDriver)

			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			fmt.Fprintln(out, "✓ AutoMigrate completed successfully")

			rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
			defer rdb.Close()
			if err := rdb.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Redis connection successful (%s)\n", cfg.RedisAddr)
			return nil
		},
	}
}
