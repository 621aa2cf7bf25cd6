package cmd

import (
	"fmt"

	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/services"
	"github.com/spf13/cobra"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants and their users",
}

var tenantCreateCmd = &cobra.Command{
	Use:   "create <slug>",
	Short: "Create a tenant with an admin user and the default product catalogue",
	Example: `  # New dairy with admin login "owner"
  dairy-api tenant create sunrise --name "Sunrise Dairy" --admin owner --password s3cret`,
	Args: cobra.ExactArgs(1),
	RunE: runTenantCreate,
}

var userAddCmd = &cobra.Command{
	Use:   "add-user <slug>",
	Short: "Add a user to an existing tenant",
	Example: `  dairy-api tenant add-user sunrise --username ravi --password pass --role staff`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(tenantCreateCmd, userAddCmd)

	tenantCreateCmd.Flags().String("name", "", "Display name of the business")
	tenantCreateCmd.Flags().String("admin", "admin", "Username of the first admin")
	tenantCreateCmd.Flags().String("password", "", "Password of the first admin")
	_ = tenantCreateCmd.MarkFlagRequired("name")
	_ = tenantCreateCmd.MarkFlagRequired("password")

	userAddCmd.Flags().String("username", "", "Login name")
	userAddCmd.Flags().String("password", "", "Password")
	userAddCmd.Flags().String("role", models.RoleStaff, "admin or staff")
	_ = userAddCmd.MarkFlagRequired("username")
	_ = userAddCmd.MarkFlagRequired("password")
}

func runTenantCreate(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if err := migrate(db, log); err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	admin, _ := cmd.Flags().GetString("admin")
	password, _ := cmd.Flags().GetString("password")

	auth := services.NewAuthService(db, services.NewTokenService(cfg), log)
	tenant, err := auth.CreateTenant(cmd.Context(), args[0], name, admin, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created tenant %q (id %d) with admin %q\n", tenant.Slug, tenant.ID, admin)
	return nil
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	role, _ := cmd.Flags().GetString("role")

	auth := services.NewAuthService(db, services.NewTokenService(cfg), log)
	user, err := auth.CreateUser(cmd.Context(), args[0], username, password, role)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q to tenant %q\n", user.Role, user.Username, args[0])
	return nil
}
