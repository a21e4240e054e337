package cli

import (
	"fmt"

	"careers/internal/app"
	"careers/internal/domain"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a staff account",
		Example: `  careers user create --email hr@example.com --name "Hana HR" --role hr --password '...'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "email", "name", "role", "password"); err != nil {
				return err
			}
			var in app.NewUser
			in.Email, _ = cmd.Flags().GetString("email")
			in.Name, _ = cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")
			in.Role = domain.Role(role)
			in.Password, _ = cmd.Flags().GetString("password")

			e, err := openEnv(configFrom(cmd.Context()), nil)
			if err != nil {
				return err
			}
			defer e.close()

			u, err := e.auth.CreateUser(cmd.Context(), operator, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s created: %s (%s)\n", domain.RoleDisplayName(u.Role), u.Email, u.ID)
			return nil
		},
	}
	createCmd.Flags().String("email", "", "email address")
	createCmd.Flags().String("name", "", "display name")
	createCmd.Flags().String("role", "", "admin, hr or manager")
	createCmd.Flags().String("password", "", "password (8 to 72 characters)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List staff accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(configFrom(cmd.Context()), nil)
			if err != nil {
				return err
			}
			defer e.close()

			users, err := e.auth.ListUsers(cmd.Context(), operator)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, "No users yet. Create the first one with 'careers setup'")
				return nil
			}

			fmt.Fprintln(out, titleStyle.Render("Staff"))
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				last := "never"
				if u.LastLoginAt != nil {
					last = u.LastLoginAt.Format("Jan 2, 2006 15:04")
				}
				rows = append(rows, []string{u.Email, u.Name, domain.RoleDisplayName(u.Role), last})
			}
			renderTable(out, []string{"Email", "Name", "Role", "Last login"}, rows)
			return nil
		},
	}

	userCmd.AddCommand(createCmd, listCmd)
	return userCmd
}
