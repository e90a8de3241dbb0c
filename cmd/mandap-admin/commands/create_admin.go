package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rahulwaghole14/mandap/domain"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/auth"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/database"
	"github.com/rahulwaghole14/mandap/internal/infrastructure/repositories"
	"github.com/rahulwaghole14/mandap/internal/services"
)

func createAdminCmd() *cobra.Command {
	var (
		email    string
		password string
		role     string
	)
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cfg.DBDriver, cfg.DSN)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.AutoMigrate(db); err != nil {
				return err
			}

			svc := services.NewAuthService(
				repositories.NewAdminRepository(db), nil,
				auth.NewPasswordService(), nil, nil,
				services.AuthConfig{},
			)
			admin, err := svc.CreateAdmin(cmd.Context(), email, password, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created with role %s (id %d)\n", admin.Email, admin.Role, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 8 characters)")
	cmd.Flags().StringVar(&role, "role", domain.RoleAdmin, "admin or operator")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
