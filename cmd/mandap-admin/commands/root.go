package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rahulwaghole14/mandap/internal/app"
	"github.com/rahulwaghole14/mandap/internal/config"
)

var (
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "mandap-admin",
		Short:         "Admin API for the mandap company directory and WhatsApp broadcasts",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = c
			logger = app.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			slog.SetDefault(logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the YAML config file")

	root.AddCommand(serveCmd(), createAdminCmd(), checkCmd())
	return root.Execute()
}
