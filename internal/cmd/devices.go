package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/iocontext"
	"github.com/thingsboard/tb-cli/internal/validation"
)

func newDevicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "devices",
		Aliases: []string{"device", "dev", "d"},
		Short:   "Manage devices",
	}
	cmd.AddCommand(newDevicesListCmd())
	cmd.AddCommand(newDevicesGetCmd())
	cmd.AddCommand(newDevicesCreateCmd())
	cmd.AddCommand(newDevicesDeleteCmd())
	cmd.AddCommand(newDevicesCredentialsCmd())
	cmd.AddCommand(newDevicesTypesCmd())
	return cmd
}

var deviceTable = table[api.Device]{
	headers: []string{"ID", "NAME", "TYPE", "LABEL", "CREATED"},
	row: func(d api.Device) []string {
		return []string{idOf(d.ID), d.Name, d.Type, d.Label, d.CreatedTime.String()}
	},
	empty: "No devices found.",
}

func newDevicesListCmd() *cobra.Command {
	var (
		page       pageFlags
		deviceType string
		customer   string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List devices",
		Example: `  tb devices list
  tb devices list --type thermostat --all
  tb devices list --customer "Acme Corp" --json`,
		Args: cobra.NoArgs,
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
			result, err := fetchPages(ctx, page, func(ctx context.Context, p api.PageParams) (*api.PageData[api.Device], error) {
				params := api.TypedPageParams{PageParams: p, Type: deviceType}
				if customerID != "" {
					return client.Devices().ListByCustomer(ctx, customerID, params)
				}
				return client.Devices().List(ctx, params)
			})
			if err != nil {
				return err
			}
			return renderPage(cmd, result, deviceTable)
		}),
	}
	addPageFlags(cmd, &page)
	cmd.Flags().StringVar(&deviceType, "type", "", "Filter by device type")
	cmd.Flags().StringVar(&customer, "customer", "", "List devices assigned to a customer (id or title)")
	return cmd
}

func writeDevice(cmd *cobra.Command, d *api.Device) error {
	customer := ""
	if d.CustomerID != nil && d.CustomerID.ID != nullEntityID {
		customer = d.CustomerID.ID
	}
	return writeItem(cmd, d,
		"ID", idOf(d.ID),
		"Name", d.Name,
		"Type", d.Type,
		"Label", d.Label,
		"Customer", customer,
		"Created", d.CreatedTime.String(),
	)
}

// nullEntityID is how ThingsBoard marks an unassigned owner.
const nullEntityID = "13814000-1dd2-11b2-8080-808080808080"

func newDevicesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|name>",
		Short: "Show a device",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, deviceKind, args[0])
			if err != nil {
				return err
			}
			device, err := client.Devices().Get(ctx, id)
			if err != nil {
				return err
			}
			return writeDevice(cmd, device)
		}),
	}
}

func newDevicesCreateCmd() *cobra.Command {
	var (
		name        string
		deviceType  string
		label       string
		accessToken string
		groupID     string
		info        string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a device",
		Example: `  tb devices create --name "Boiler 7" --type boiler
  tb devices create --name sensor-01 --access-token A1_TEST_TOKEN --info '{"gateway":false}'`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateName(name); err != nil {
				return fmt.Errorf("--name: %w", err)
			}
			device := api.Device{Name: strings.TrimSpace(name), Type: deviceType, Label: label}
			if info != "" {
				if err := validation.ValidateJSONPayload(info); err != nil {
					return fmt.Errorf("--info: %w", err)
				}
				if err := json.Unmarshal([]byte(info), &device.AdditionalInfo); err != nil {
					return fmt.Errorf("--info must be a JSON object: %w", err)
				}
			}
			opts := api.SaveDeviceOptions{AccessToken: accessToken, EntityGroupID: groupID}

			client, err := getClient()
			if err != nil {
				return err
			}
			call := callWith("accessToken", accessToken, "entityGroupId", groupID)
			call.Body = device
			if stop, err := previewOperation(cmd, client, "saveDevice", call); stop {
				return err
			}

			saved, err := client.Devices().Save(cmdContext(cmd), device, opts)
			if err != nil {
				return err
			}
			forgetNames(client, deviceKind)
			printAction(cmd, "Created", "device", idOf(saved.ID), saved.Name)
			if isStructured(cmd) {
				return printJSON(cmd, saved)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Device name (required)")
	cmd.Flags().StringVar(&deviceType, "type", "default", "Device type")
	cmd.Flags().StringVar(&label, "label", "", "Device label")
	cmd.Flags().StringVar(&accessToken, "access-token", "", "Access token credentials to assign")
	cmd.Flags().StringVar(&groupID, "group", "", "Entity group to add the device to")
	cmd.Flags().StringVar(&info, "info", "", "additionalInfo as a JSON object")
	return cmd
}

func newDevicesDeleteCmd() *cobra.Command {
	var concurrency int64
	var progress bool

	cmd := &cobra.Command{
		Use:     "delete <id|name>...",
		Aliases: []string{"rm"},
		Short:   "Delete one or more devices",
		Example: `  tb devices delete "Boiler 7"
  tb devices delete 784f394c-42b6-435a-983c-b7beff2784f9 1e3fa4f0-42b6-435a-983c-b7beff2784f9 --yes
  tb devices list --type test --json --jq '.data[].id.id' | xargs tb devices delete --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			ids := make([]string, 0, len(args))
			for _, arg := range args {
				id, err := resolveID(ctx, client, deviceKind, arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			if stop, err := previewOperation(cmd, client, "deleteDevice", callWith("deviceId", ids[0])); stop {
				if err == nil && len(ids) > 1 && !isStructured(cmd) {
					_, _ = fmt.Fprintf(iocontext.GetIO(ctx).Out, "... and %d more device(s)\n", len(ids)-1)
				}
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete %d device(s)? This cannot be undone. [y/N]: ", len(ids)),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}

			if len(ids) == 1 {
				if err := client.Devices().Delete(ctx, ids[0]); err != nil {
					return err
				}
				forgetNames(client, deviceKind)
				printAction(cmd, "Deleted", "device", ids[0], "")
				if isStructured(cmd) {
					return printJSON(cmd, map[string]any{"id": ids[0], "deleted": true})
				}
				return nil
			}

			errOut := iocontext.GetIO(ctx).ErrOut
			results := runBulkOperation(ctx, ids, concurrency, progress && !isStructured(cmd), errOut, func(ctx context.Context, id string) error {
				return client.Devices().Delete(ctx, id)
			})
			forgetNames(client, deviceKind)
			return writeBulkResults(cmd, "Deleted", "device", results)
		}),
	}
	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests for multiple devices")
	cmd.Flags().BoolVar(&progress, "progress", true, "Show progress on stderr")
	return cmd
}

func newDevicesCredentialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "credentials <id|name>",
		Aliases: []string{"creds"},
		Short:   "Show a device's credentials",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, deviceKind, args[0])
			if err != nil {
				return err
			}
			creds, err := client.Devices().Credentials(ctx, id)
			if err != nil {
				return err
			}
			pairs := []string{
				"Device", id,
				"Type", creds.CredentialsType,
				"Credentials ID", creds.CredentialsID,
			}
			if creds.CredentialsValue != "" {
				pairs = append(pairs, "Value", creds.CredentialsValue)
			}
			return writeItem(cmd, creds, pairs...)
		}),
	}
}

func newDevicesTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the device types in use",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			types, err := client.Devices().Types(cmdContext(cmd))
			if err != nil {
				return err
			}
			return renderList(cmd, types, table[string]{
				headers: []string{"TYPE"},
				row:     func(t string) []string { return []string{t} },
				empty:   "No device types found.",
			})
		}),
	}
}
