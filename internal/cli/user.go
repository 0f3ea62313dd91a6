package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amanah-profile-site/internal/models"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newUserCreateCmd(), newUserListCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var in models.UserInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(in.Email) == "" || in.Password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			services, err := getEnv(cmd).openServices()
			if err != nil {
				return err
			}
			user, err := services.User.Create(cmd.Context(), &in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d <%s>\n", user.ID, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	return cmd
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := getEnv(cmd).openServices()
			if err != nil {
				return err
			}
			users, err := services.User.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", u.ID, u.Email, u.Name)
			}
			return nil
		},
	}
}
