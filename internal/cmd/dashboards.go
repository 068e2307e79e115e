package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
)

func newDashboardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboards",
		Aliases: []string{"dashboard", "db"},
		Short:   "List and inspect dashboards",
	}
	cmd.AddCommand(newDashboardsListCmd())
	cmd.AddCommand(newDashboardsGetCmd())
	return cmd
}

var dashboardTable = table[api.DashboardInfo]{
	headers: []string{"ID", "TITLE", "PUBLIC", "CREATED"},
	row: func(d api.DashboardInfo) []string {
		return []string{d.ID.ID, d.Title, boolMark(d.Public), d.CreatedTime.String()}
	},
	empty: "No dashboards found.",
}

func newDashboardsListCmd() *cobra.Command {
	var (
		page   pageFlags
		tenant bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List dashboards visible to the current user",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			result, err := fetchPages(cmdContext(cmd), page, func(ctx context.Context, p api.PageParams) (*api.PageData[api.DashboardInfo], error) {
				if tenant {
					return client.Dashboards().List(ctx, p)
				}
				return client.Dashboards().ListForUser(ctx, p)
			})
			if err != nil {
				return err
			}
			return renderPage(cmd, result, dashboardTable)
		}),
	}
	addPageFlags(cmd, &page)
	cmd.Flags().BoolVar(&tenant, "tenant", false, "List every tenant dashboard (tenant administrator)")
	return cmd
}

func newDashboardsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|title>",
		Short: "Show a dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, dashboardKind, args[0])
			if err != nil {
				return err
			}
			dashboard, err := client.Dashboards().Get(ctx, id)
			if err != nil {
				return err
			}
			return writeItem(cmd, dashboard,
				"ID", dashboard.ID.ID,
				"Title", dashboard.Title,
				"Public", boolMark(dashboard.Public),
				"Created", dashboard.CreatedTime.String(),
				"URL", client.BaseURL+"/dashboards/"+dashboard.ID.ID,
			)
		}),
	}
}
