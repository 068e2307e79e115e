package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/validation"
)

func newCustomersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer", "cu"},
		Short:   "Manage customers",
	}
	cmd.AddCommand(newCustomersListCmd())
	cmd.AddCommand(newCustomersGetCmd())
	cmd.AddCommand(newCustomersCreateCmd())
	cmd.AddCommand(newCustomersDeleteCmd())
	return cmd
}

var customerTable = table[api.Customer]{
	headers: []string{"ID", "TITLE", "EMAIL", "CITY", "CREATED"},
	row: func(c api.Customer) []string {
		return []string{idOf(c.ID), c.Title, c.Email, c.City, c.CreatedTime.String()}
	},
	empty: "No customers found.",
}

func newCustomersListCmd() *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List customers",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			result, err := fetchPages(cmdContext(cmd), page, func(ctx context.Context, p api.PageParams) (*api.PageData[api.Customer], error) {
				return client.Customers().List(ctx, p)
			})
			if err != nil {
				return err
			}
			return renderPage(cmd, result, customerTable)
		}),
	}
	addPageFlags(cmd, &page)
	return cmd
}

func writeCustomer(cmd *cobra.Command, c *api.Customer) error {
	return writeItem(cmd, c,
		"ID", idOf(c.ID),
		"Title", c.Title,
		"Email", c.Email,
		"Phone", c.Phone,
		"Country", c.Country,
		"City", c.City,
		"Created", c.CreatedTime.String(),
	)
}

func newCustomersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id|title>",
		Short: "Show a customer",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, customerKind, args[0])
			if err != nil {
				return err
			}
			customer, err := client.Customers().Get(ctx, id)
			if err != nil {
				return err
			}
			return writeCustomer(cmd, customer)
		}),
	}
}

func newCustomersCreateCmd() *cobra.Command {
	var (
		title   string
		email   string
		phone   string
		country string
		city    string
		groupID string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer",
		Example: `  tb customers create --title "Acme Corp" --email ops@acme.example
  tb customers create --title "Acme Corp" --group 4f1c2e8a-0d5b-11ee-9c1a-0242ac120002`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := validation.ValidateName(title); err != nil {
				return fmt.Errorf("--title: %w", err)
			}
			if email != "" {
				if err := validation.ValidateEmail(email); err != nil {
					return err
				}
			}
			if groupID != "" {
				if err := validation.ValidateEntityID(groupID, "entity group"); err != nil {
					return err
				}
			}
			customer := api.Customer{
				Title:   strings.TrimSpace(title),
				Email:   email,
				Phone:   phone,
				Country: country,
				City:    city,
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			call := callWith("entityGroupId", groupID)
			call.Body = customer
			if stop, err := previewOperation(cmd, client, "saveCustomer", call); stop {
				return err
			}

			saved, err := client.Customers().Save(cmdContext(cmd), customer, groupID)
			if err != nil {
				return err
			}
			forgetNames(client, customerKind)
			printAction(cmd, "Created", "customer", idOf(saved.ID), saved.Title)
			if isStructured(cmd) {
				return printJSON(cmd, saved)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "Customer title (required)")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&country, "country", "", "Country")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().StringVar(&groupID, "group", "", "Entity group to add the customer to")
	flagAlias(cmd.Flags(), "title", "name")
	return cmd
}

func newCustomersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|title>",
		Aliases: []string{"rm"},
		Short:   "Delete a customer",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := resolveID(ctx, client, customerKind, args[0])
			if err != nil {
				return err
			}
			if stop, err := previewOperation(cmd, client, "deleteCustomer", callWith("customerId", id)); stop {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete customer %s? Devices and assets stay with the tenant. [y/N]: ", id),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			if err := client.Customers().Delete(ctx, id); err != nil {
				return err
			}
			forgetNames(client, customerKind)
			printAction(cmd, "Deleted", "customer", id, "")
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"id": id, "deleted": true})
			}
			return nil
		}),
	}
}
