package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Server settings and health (administrators)",
	}
	cmd.AddCommand(newAdminInfoCmd())
	cmd.AddCommand(newAdminUpdatesCmd())
	cmd.AddCommand(newAdminSettingsCmd())
	return cmd
}

func newAdminInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the server's system info",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			info, err := client.Admin().SystemInfo(cmdContext(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd, info)
		}),
	}
}

func newAdminUpdatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "updates",
		Short: "Check whether a platform update is available",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			msg, err := client.Admin().CheckUpdates(cmdContext(cmd))
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, msg)
			}
			out := cmd.OutOrStdout()
			if !msg.UpdateAvailable {
				_, _ = fmt.Fprintln(out, "Platform is up to date.")
				return nil
			}
			_, _ = fmt.Fprintf(out, "%s %s -> %s\n", yellow("Update available:"), msg.CurrentVersion, msg.LatestVersion)
			if msg.Message != "" {
				_, _ = fmt.Fprintln(out, msg.Message)
			}
			return nil
		}),
	}
}

func newAdminSettingsCmd() *cobra.Command {
	var (
		systemByDefault bool
		data            string
	)
	cmd := &cobra.Command{
		Use:   "settings <key>",
		Short: "Show or replace a settings document (general, mail, sms, ...)",
		Example: `  tb admin settings general
  tb admin settings mail --json -q .jsonValue.smtpHost
  tb admin settings general --data '{"baseUrl": "https://tb.example.com"}'`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			if data != "" {
				payload, err := callBody(cmd, data)
				if err != nil {
					return err
				}
				value, ok := payload.(map[string]any)
				if !ok {
					return fmt.Errorf("--data must be a JSON object")
				}
				settings := api.AdminSettings{Key: args[0], JSONValue: value}
				if existing, err := client.Admin().Settings(ctx, args[0], false); err == nil {
					settings.ID = existing.ID
				} else if !api.IsNotFoundError(err) {
					return err
				}
				if stop, err := previewOperation(cmd, client, "saveAdminSettings", api.Call{Body: settings}); stop {
					return err
				}
				saved, err := client.Admin().SaveSettings(ctx, settings)
				if err != nil {
					return err
				}
				printAction(cmd, "Saved", "settings", saved.Key, "")
				if isStructured(cmd) {
					return printJSON(cmd, saved)
				}
				return nil
			}

			settings, err := client.Admin().Settings(ctx, args[0], systemByDefault)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, settings)
			}
			keys := make([]string, 0, len(settings.JSONValue))
			for k := range settings.JSONValue {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, 0, 2*len(keys))
			for _, k := range keys {
				pairs = append(pairs, k, fmt.Sprint(settings.JSONValue[k]))
			}
			return newFormatter(cmd).KeyValues(pairs...)
		}),
	}
	cmd.Flags().BoolVar(&systemByDefault, "system-default", false, "Fall back to the system settings when the tenant has none")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Replace the settings with this JSON object (@file or - for stdin)")
	return cmd
}
