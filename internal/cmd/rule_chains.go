package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
)

func newRuleChainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rule-chains",
		Aliases: []string{"rulechains", "rc"},
		Short:   "List and manage rule chains",
	}
	cmd.AddCommand(newRuleChainsListCmd())
	cmd.AddCommand(newRuleChainsGetCmd())
	cmd.AddCommand(newRuleChainsSetRootCmd())
	return cmd
}

var ruleChainTable = table[api.RuleChain]{
	headers: []string{"ID", "NAME", "TYPE", "ROOT", "DEBUG"},
	row: func(r api.RuleChain) []string {
		return []string{r.ID.ID, r.Name, r.Type, boolMark(r.Root), boolMark(r.DebugMode)}
	},
	empty: "No rule chains found.",
}

func newRuleChainsListCmd() *cobra.Command {
	var (
		page      pageFlags
		chainType string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List rule chains",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			result, err := fetchPages(cmdContext(cmd), page, func(ctx context.Context, p api.PageParams) (*api.PageData[api.RuleChain], error) {
				return client.RuleChains().List(ctx, api.TypedPageParams{PageParams: p, Type: strings.ToUpper(chainType)})
			})
			if err != nil {
				return err
			}
			return renderPage(cmd, result, ruleChainTable)
		}),
	}
	addPageFlags(cmd, &page)
	cmd.Flags().StringVar(&chainType, "type", "", "CORE or EDGE")
	return cmd
}

func newRuleChainsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Show a rule chain",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, ruleChainKind, args[0])
			if err != nil {
				return err
			}
			chain, err := client.RuleChains().Get(ctx, id)
			if err != nil {
				return err
			}
			return writeItem(cmd, chain,
				"ID", chain.ID.ID,
				"Name", chain.Name,
				"Type", chain.Type,
				"Root", boolMark(chain.Root),
				"Debug", boolMark(chain.DebugMode),
				"Created", chain.CreatedTime.String(),
			)
		}),
	}
}

func newRuleChainsSetRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-root <id|name>",
		Short: "Make a rule chain the tenant's root chain",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, ruleChainKind, args[0])
			if err != nil {
				return err
			}
			if stop, err := previewOperation(cmd, client, "setRootRuleChain", callWith("ruleChainId", id)); stop {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Route all incoming messages through rule chain %s? [y/N]: ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			chain, err := client.RuleChains().SetRoot(ctx, id)
			if err != nil {
				return err
			}
			printAction(cmd, "Set", "root rule chain", id, chain.Name)
			if isStructured(cmd) {
				return printJSON(cmd, chain)
			}
			return nil
		}),
	}
}
