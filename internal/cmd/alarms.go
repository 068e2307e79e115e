package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/iocontext"
	"github.com/thingsboard/tb-cli/internal/validation"
)

func newAlarmsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alarms",
		Aliases: []string{"alarm", "al"},
		Short:   "Query and manage alarms",
	}
	cmd.AddCommand(newAlarmsListCmd())
	cmd.AddCommand(newAlarmsGetCmd())
	cmd.AddCommand(newAlarmActionCmd("ack", "Acknowledge", "Acknowledged", "ackAlarm", func(ctx context.Context, c *api.Client, id string) error {
		_, err := c.Alarms().Ack(ctx, id)
		return err
	}))
	cmd.AddCommand(newAlarmActionCmd("clear", "Clear", "Cleared", "clearAlarm", func(ctx context.Context, c *api.Client, id string) error {
		_, err := c.Alarms().Clear(ctx, id)
		return err
	}))
	cmd.AddCommand(newAlarmActionCmd("delete", "Delete", "Deleted", "deleteAlarm", func(ctx context.Context, c *api.Client, id string) error {
		return c.Alarms().Delete(ctx, id)
	}))
	cmd.AddCommand(newAlarmsSeverityCmd())
	return cmd
}

var alarmTable = table[api.Alarm]{
	headers: []string{"ID", "TYPE", "SEVERITY", "STATUS", "ORIGINATOR", "STARTED"},
	row: func(a api.Alarm) []string {
		originator := a.OriginatorName
		if originator == "" {
			originator = a.Originator.String()
		}
		return []string{a.ID.ID, a.Type, severityColor(a.Severity), a.Status, originator, a.StartTs.String()}
	},
	empty: "No alarms found.",
}

func severityColor(severity string) string {
	switch severity {
	case "CRITICAL", "MAJOR":
		return red(severity)
	case "MINOR", "WARNING":
		return yellow(severity)
	}
	return severity
}

func newAlarmsListCmd() *cobra.Command {
	var (
		page         pageFlags
		entity       string
		searchStatus string
		status       string
		since        time.Duration
		noOriginator bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List alarms",
		Example: `  tb alarms list --search-status active
  tb alarms list --entity "Boiler 7" --since 24h
  tb alarms list --entity ASSET:"Plant A" --status ACTIVE_UNACK --json`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			var target *api.EntityID
			if entity != "" {
				e, err := resolveEntity(ctx, client, entity, api.EntityDevice)
				if err != nil {
					return err
				}
				target = &e
			}
			query := api.AlarmQueryParams{
				SearchStatus: strings.ToUpper(searchStatus),
				Status:       strings.ToUpper(status),
			}
			if since > 0 {
				query.StartTime = time.Now().Add(-since).UnixMilli()
			}
			fetchOriginator := !noOriginator
			query.FetchOriginator = &fetchOriginator

			result, err := fetchPages(ctx, page, func(ctx context.Context, p api.PageParams) (*api.PageData[api.Alarm], error) {
				q := query
				q.PageParams = p
				if target != nil {
					return client.Alarms().ListForEntity(ctx, *target, q)
				}
				return client.Alarms().List(ctx, q)
			})
			if err != nil {
				return err
			}
			return renderPage(cmd, result, alarmTable)
		}),
	}
	addPageFlags(cmd, &page)
	cmd.Flags().StringVar(&entity, "entity", "", "Originator as [TYPE:]id-or-name (default type DEVICE)")
	cmd.Flags().StringVar(&searchStatus, "search-status", "", "ANY|ACTIVE|CLEARED|ACK|UNACK")
	cmd.Flags().StringVar(&status, "status", "", "ACTIVE_UNACK|ACTIVE_ACK|CLEARED_UNACK|CLEARED_ACK")
	cmd.Flags().DurationVar(&since, "since", 0, "Only alarms started within this window (e.g. 1h, 7d as 168h)")
	cmd.Flags().BoolVar(&noOriginator, "no-originator", false, "Skip fetching originator names")
	return cmd
}

func newAlarmsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <alarm-id>",
		Short: "Show an alarm",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateEntityID(args[0], "alarm id"); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			alarm, err := client.Alarms().Get(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return writeItem(cmd, alarm,
				"ID", alarm.ID.ID,
				"Type", alarm.Type,
				"Severity", severityColor(alarm.Severity),
				"Status", alarm.Status,
				"Originator", alarm.Originator.String(),
				"Started", alarm.StartTs.String(),
				"Ended", alarm.EndTs.String(),
			)
		}),
	}
}

// newAlarmActionCmd builds ack, clear and delete, which share argument
// handling and bulk execution.
func newAlarmActionCmd(use, verb, done, operation string, fn func(context.Context, *api.Client, string) error) *cobra.Command {
	var concurrency int64

	cmd := &cobra.Command{
		Use:   use + " <alarm-id>...",
		Short: verb + " one or more alarms",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := validation.ValidateEntityID(id, "alarm id"); err != nil {
					return err
				}
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			if stop, err := previewOperation(cmd, client, operation, callWith("alarmId", args[0])); stop {
				return err
			}
			if use == "delete" {
				ok, err := confirmAction(cmd, confirmOptions{
					Prompt:        fmt.Sprintf("Delete %d alarm(s)? [y/N]: ", len(args)),
					CancelMessage: "Cancelled.",
				})
				if err != nil || !ok {
					return err
				}
			}

			if len(args) == 1 {
				if err := fn(ctx, client, args[0]); err != nil {
					return err
				}
				printAction(cmd, done, "alarm", args[0], "")
				if isStructured(cmd) {
					return printJSON(cmd, map[string]any{"id": args[0], "success": true})
				}
				return nil
			}
			results := runBulkOperation(ctx, args, concurrency, !isStructured(cmd), iocontext.GetIO(ctx).ErrOut,
				func(ctx context.Context, id string) error { return fn(ctx, client, id) })
			return writeBulkResults(cmd, done, "alarm", results)
		}),
	}
	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests for multiple alarms")
	return cmd
}

func newAlarmsSeverityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "severity <[TYPE:]id|name>",
		Short: "Show the highest severity among an entity's alarms",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			entity, err := resolveEntity(ctx, client, args[0], api.EntityDevice)
			if err != nil {
				return err
			}
			severity, err := client.Alarms().HighestSeverity(ctx, entity)
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"entity": entity, "severity": severity})
			}
			if severity == "" {
				newFormatter(cmd).Empty("No alarms.")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), severityColor(severity))
			return nil
		}),
	}
}
