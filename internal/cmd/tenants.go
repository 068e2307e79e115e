package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
)

func newTenantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tenants",
		Aliases: []string{"tenant", "tn"},
		Short:   "Manage tenants (system administrator)",
	}
	cmd.AddCommand(newTenantsListCmd())
	cmd.AddCommand(newTenantsGetCmd())
	return cmd
}

var tenantTable = table[api.Tenant]{
	headers: []string{"ID", "TITLE", "EMAIL", "REGION", "CREATED"},
	row: func(t api.Tenant) []string {
		return []string{t.ID.ID, t.Title, t.Email, t.Region, t.CreatedTime.String()}
	},
	empty: "No tenants found.",
}

func newTenantsListCmd() *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tenants",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			result, err := fetchPages(cmdContext(cmd), page, func(ctx context.Context, p api.PageParams) (*api.PageData[api.Tenant], error) {
				return client.Tenants().List(ctx, p)
			})
			if err != nil {
				return err
			}
			return renderPage(cmd, result, tenantTable)
		}),
	}
	addPageFlags(cmd, &page)
	return cmd
}

func newTenantsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|title>",
		Short: "Show a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, tenantKind, args[0])
			if err != nil {
				return err
			}
			tenant, err := client.Tenants().Get(ctx, id)
			if err != nil {
				return err
			}
			return writeItem(cmd, tenant,
				"ID", tenant.ID.ID,
				"Title", tenant.Title,
				"Email", tenant.Email,
				"Region", tenant.Region,
				"Country", tenant.Country,
				"City", tenant.City,
				"Created", tenant.CreatedTime.String(),
			)
		}),
	}
}
