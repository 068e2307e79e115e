package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "us"},
		Short:   "List and inspect users",
	}
	cmd.AddCommand(newUsersMeCmd())
	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersGetCmd())
	return cmd
}

func fullName(u *api.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func writeUser(cmd *cobra.Command, u *api.User) error {
	pairs := []string{
		"ID", u.ID.ID,
		"Email", u.Email,
		"Name", fullName(u),
		"Authority", u.Authority,
	}
	if u.TenantID != nil {
		pairs = append(pairs, "Tenant", u.TenantID.ID)
	}
	if u.CustomerID != nil && u.CustomerID.ID != nullEntityID {
		pairs = append(pairs, "Customer", u.CustomerID.ID)
	}
	return writeItem(cmd, u, pairs...)
}

func newUsersMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "me",
		Aliases: []string{"whoami"},
		Short:   "Show the authenticated user",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			user, err := client.Auth().CurrentUser(cmdContext(cmd))
			if err != nil {
				return err
			}
			return writeUser(cmd, user)
		}),
	}
}

func newUsersListCmd() *cobra.Command {
	var (
		page     pageFlags
		customer string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			customerID := ""
			if customer != "" {
				if customerID, err = resolveID(ctx, client, customerKind, customer); err != nil {
					return err
				}
			}
			result, err := fetchPages(ctx, page, func(ctx context.Context, p api.PageParams) (*api.PageData[api.User], error) {
				if customerID != "" {
					return client.Users().ListByCustomer(ctx, customerID, p)
				}
				return client.Users().List(ctx, p)
			})
			if err != nil {
				return err
			}
			return renderPage(cmd, result, table[api.User]{
				headers: []string{"ID", "EMAIL", "NAME", "AUTHORITY"},
				row: func(u api.User) []string {
					return []string{u.ID.ID, u.Email, fullName(&u), u.Authority}
				},
				empty: "No users found.",
			})
		}),
	}
	addPageFlags(cmd, &page)
	cmd.Flags().StringVar(&customer, "customer", "", "List users of a customer (id or title)")
	return cmd
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|email>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, userKind, args[0])
			if err != nil {
				return err
			}
			user, err := client.Users().Get(ctx, id)
			if err != nil {
				return err
			}
			return writeUser(cmd, user)
		}),
	}
}
