package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/validation"
)

func newEntityGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entity-groups",
		Aliases: []string{"groups", "eg"},
		Short:   "Manage entity groups",
	}
	cmd.AddCommand(newEntityGroupsListCmd())
	cmd.AddCommand(newEntityGroupsGetCmd())
	cmd.AddCommand(newEntityGroupsEntitiesCmd())
	cmd.AddCommand(newEntityGroupsAddCmd())
	return cmd
}

func newEntityGroupsListCmd() *cobra.Command {
	var shared bool
	cmd := &cobra.Command{
		Use:     "list <type>",
		Aliases: []string{"ls"},
		Short:   "List entity groups of a type (DEVICE, ASSET, CUSTOMER, USER, DASHBOARD...)",
		Example: `  tb entity-groups list device
  tb entity-groups list asset --shared=false --json`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			groupType, err := api.NormalizeEntityType(args[0])
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			groups, err := client.EntityGroups().ListByType(cmdContext(cmd), groupType, shared)
			if err != nil {
				return err
			}
			return renderList(cmd, groups, table[api.EntityGroup]{
				headers: []string{"ID", "NAME", "TYPE", "OWNER", "ALL"},
				row: func(g api.EntityGroup) []string {
					return []string{g.ID.ID, g.Name, g.Type, g.OwnerID.String(), boolMark(g.GroupAll)}
				},
				empty: "No entity groups found.",
			})
		}),
	}
	cmd.Flags().BoolVar(&shared, "shared", true, "Include groups shared with the current user")
	return cmd
}

func newEntityGroupsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <group-id>",
		Short: "Show an entity group",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateEntityID(args[0], "group id"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			group, err := client.EntityGroups().Get(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return writeItem(cmd, group,
				"ID", group.ID.ID,
				"Name", group.Name,
				"Type", group.Type,
				"Owner", group.OwnerID.String(),
				"All", boolMark(group.GroupAll),
			)
		}),
	}
}

func newEntityGroupsEntitiesCmd() *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:   "entities <group-id>",
		Short: "List the entities in a group",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateEntityID(args[0], "group id"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			result, err := fetchPages(cmdContext(cmd), page, func(ctx context.Context, p api.PageParams) (*api.PageData[map[string]any], error) {
				return client.EntityGroups().Entities(ctx, args[0], p)
			})
			if err != nil {
				return err
			}
			return renderPage(cmd, result, table[map[string]any]{
				headers: []string{"ID", "NAME"},
				row: func(e map[string]any) []string {
					id := ""
					if m, ok := e["id"].(map[string]any); ok {
						id = fmt.Sprint(m["id"])
					}
					return []string{id, fmt.Sprint(e["name"])}
				},
				empty: "Group is empty.",
			})
		}),
	}
	addPageFlags(cmd, &page)
	return cmd
}

func newEntityGroupsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <group-id> <entity-id>...",
		Short: "Add entities to a group",
		Args:  cobra.MinimumNArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			for i, id := range args {
				field := "entity id"
				if i == 0 {
					field = "group id"
				}
				if err := validation.ValidateEntityID(id, field); err != nil {
					return err
				}
			}
			groupID, ids := args[0], args[1:]
			client, err := getClient()
			if err != nil {
				return err
			}
			call := callWith("entityGroupId", groupID)
			call.Body = ids
			if stop, err := previewOperation(cmd, client, "addEntitiesToEntityGroup", call); stop {
				return err
			}
			if err := client.EntityGroups().AddEntities(cmdContext(cmd), groupID, ids); err != nil {
				return err
			}
			printAction(cmd, "Added", fmt.Sprintf("%d entities to group", len(ids)), groupID, "")
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"group": groupID, "added": ids})
			}
			return nil
		}),
	}
}
