package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/validation"
)

func newAssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assets",
		Aliases: []string{"asset", "as"},
		Short:   "Manage assets",
	}
	cmd.AddCommand(newAssetsListCmd())
	cmd.AddCommand(newAssetsGetCmd())
	cmd.AddCommand(newAssetsCreateCmd())
	cmd.AddCommand(newAssetsDeleteCmd())
	cmd.AddCommand(newAssetsTypesCmd())
	return cmd
}

var assetTable = table[api.Asset]{
	headers: []string{"ID", "NAME", "TYPE", "LABEL", "CREATED"},
	row: func(a api.Asset) []string {
		return []string{idOf(a.ID), a.Name, a.Type, a.Label, a.CreatedTime.String()}
	},
	empty: "No assets found.",
}

func newAssetsListCmd() *cobra.Command {
	var (
		page      pageFlags
		assetType string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List assets",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			result, err := fetchPages(cmdContext(cmd), page, func(ctx context.Context, p api.PageParams) (*api.PageData[api.Asset], error) {
				return client.Assets().List(ctx, api.TypedPageParams{PageParams: p, Type: assetType})
			})
			if err != nil {
				return err
			}
			return renderPage(cmd, result, assetTable)
		}),
	}
	addPageFlags(cmd, &page)
	cmd.Flags().StringVar(&assetType, "type", "", "Filter by asset type")
	return cmd
}

func newAssetsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Show an asset",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, assetKind, args[0])
			if err != nil {
				return err
			}
			asset, err := client.Assets().Get(ctx, id)
			if err != nil {
				return err
			}
			return writeItem(cmd, asset,
				"ID", idOf(asset.ID),
				"Name", asset.Name,
				"Type", asset.Type,
				"Label", asset.Label,
				"Created", asset.CreatedTime.String(),
			)
		}),
	}
}

func newAssetsCreateCmd() *cobra.Command {
	var name, assetType, label string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an asset",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateName(name); err != nil {
				return fmt.Errorf("--name: %w", err)
			}
			asset := api.Asset{Name: strings.TrimSpace(name), Type: assetType, Label: label}

			client, err := getClient()
			if err != nil {
				return err
			}
			call := api.Call{Body: asset}
			if stop, err := previewOperation(cmd, client, "saveAsset", call); stop {
				return err
			}
			saved, err := client.Assets().Save(cmdContext(cmd), asset)
			if err != nil {
				return err
			}
			forgetNames(client, assetKind)
			printAction(cmd, "Created", "asset", idOf(saved.ID), saved.Name)
			if isStructured(cmd) {
				return printJSON(cmd, saved)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Asset name (required)")
	cmd.Flags().StringVar(&assetType, "type", "default", "Asset type")
	cmd.Flags().StringVar(&label, "label", "", "Asset label")
	return cmd
}

func newAssetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete an asset",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, assetKind, args[0])
			if err != nil {
				return err
			}
			if stop, err := previewOperation(cmd, client, "deleteAsset", callWith("assetId", id)); stop {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete asset %s? [y/N]: ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			if err := client.Assets().Delete(ctx, id); err != nil {
				return err
			}
			forgetNames(client, assetKind)
			printAction(cmd, "Deleted", "asset", id, "")
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"id": id, "deleted": true})
			}
			return nil
		}),
	}
}

func newAssetsTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the asset types in use",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			types, err := client.Assets().Types(cmdContext(cmd))
			if err != nil {
				return err
			}
			return renderList(cmd, types, table[string]{
				headers: []string{"TYPE"},
				row:     func(t string) []string { return []string{t} },
				empty:   "No asset types found.",
			})
		}),
	}
}
