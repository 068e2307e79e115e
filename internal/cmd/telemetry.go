package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/telemetryws"
	"github.com/thingsboard/tb-cli/internal/timeexpr"
	"github.com/thingsboard/tb-cli/internal/validation"
)

func newTelemetryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "telemetry",
		Aliases: []string{"ts", "tm"},
		Short:   "Read and write time series and attributes",
		Long: `Read and write time series and attributes of any entity.

Entities are given as [TYPE:]id-or-name. Without a type prefix DEVICE is
assumed, so "Boiler 7" and DEVICE:Boiler 7 are the same entity.`,
	}
	cmd.AddCommand(newTelemetryKeysCmd())
	cmd.AddCommand(newTelemetryLatestCmd())
	cmd.AddCommand(newTelemetryHistoryCmd())
	cmd.AddCommand(newTelemetrySaveCmd())
	cmd.AddCommand(newTelemetryDeleteCmd())
	cmd.AddCommand(newTelemetryAttributesCmd())
	cmd.AddCommand(newTelemetrySetAttributesCmd())
	cmd.AddCommand(newTelemetryWatchCmd())
	return cmd
}

// tsRow is one sample flattened for tables and JSON lines.
type tsRow struct {
	Key   string     `json:"key"`
	Ts    api.Millis `json:"ts"`
	Value any        `json:"value"`
}

func flattenSeries(series map[string][]api.TsValue) []tsRow {
	keys := make([]string, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var rows []tsRow
	for _, k := range keys {
		for _, v := range series[k] {
			rows = append(rows, tsRow{Key: k, Ts: v.Ts, Value: v.Value})
		}
	}
	return rows
}

func writeSeries(cmd *cobra.Command, series map[string][]api.TsValue) error {
	f := newFormatter(cmd)
	if f.Structured() {
		return f.Output(series)
	}
	return renderList(cmd, flattenSeries(series), table[tsRow]{
		headers: []string{"KEY", "TIME", "VALUE"},
		row: func(r tsRow) []string {
			return []string{r.Key, r.Ts.String(), fmt.Sprint(r.Value)}
		},
		empty: "No data.",
	})
}

func parseKeys(raw string) ([]string, error) {
	keys := splitCommaList(raw)
	if err := validation.ValidateKeys(keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func newTelemetryKeysCmd() *cobra.Command {
	var attributes bool
	cmd := &cobra.Command{
		Use:   "keys <[TYPE:]id|name>",
		Short: "List time series (or attribute) keys of an entity",
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
			var keys []string
			if attributes {
				keys, err = client.Telemetry().AttributeKeys(ctx, entity)
			} else {
				keys, err = client.Telemetry().TimeseriesKeys(ctx, entity)
			}
			if err != nil {
				return err
			}
			sort.Strings(keys)
			return renderList(cmd, keys, table[string]{
				headers: []string{"KEY"},
				row:     func(k string) []string { return []string{k} },
				empty:   "No keys.",
			})
		}),
	}
	cmd.Flags().BoolVar(&attributes, "attributes", false, "List attribute keys instead")
	return cmd
}

func newTelemetryLatestCmd() *cobra.Command {
	var keys string
	var strict bool
	cmd := &cobra.Command{
		Use:   "latest <[TYPE:]id|name>",
		Short: "Show the latest value of each time series key",
		Example: `  tb telemetry latest "Boiler 7"
  tb telemetry latest ASSET:784f394c-42b6-435a-983c-b7beff2784f9 --keys temperature,pressure --strict`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			keyList, err := parseKeys(keys)
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			entity, err := resolveEntity(ctx, client, args[0], api.EntityDevice)
			if err != nil {
				return err
			}
			series, err := client.Telemetry().Latest(ctx, entity, keyList, strict)
			if err != nil {
				return err
			}
			return writeSeries(cmd, series)
		}),
	}
	cmd.Flags().StringVarP(&keys, "keys", "k", "", "Comma separated keys (default: all)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Return typed values instead of strings")
	return cmd
}

func newTelemetryHistoryCmd() *cobra.Command {
	var (
		keys     string
		since    time.Duration
		start    string
		end      string
		interval time.Duration
		limit    int
		agg      string
		order    string
	)
	cmd := &cobra.Command{
		Use:   "history <[TYPE:]id|name>",
		Short: "Read time series history",
		Example: `  tb telemetry history "Boiler 7" --keys temperature --since 6h
  tb telemetry history "Boiler 7" --keys temperature --start 2026-01-01T00:00:00Z --end 2026-01-02T00:00:00Z --agg AVG --interval 1h
  tb telemetry history "Boiler 7" --keys temperature --start yesterday --end today`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			keyList, err := parseKeys(keys)
			if err != nil {
				return err
			}
			if len(keyList) == 0 {
				return fmt.Errorf("--keys is required")
			}

			startTs, endTs, err := timeexpr.Window(start, end, since, time.Now())
			if err != nil {
				return err
			}
			params := api.TimeseriesParams{
				Keys:     strings.Join(keyList, ","),
				StartTs:  startTs.UnixMilli(),
				EndTs:    endTs.UnixMilli(),
				Interval: interval.Milliseconds(),
				Limit:    limit,
				Agg:      strings.ToUpper(agg),
				OrderBy:  strings.ToUpper(order),
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			entity, err := resolveEntity(ctx, client, args[0], api.EntityDevice)
			if err != nil {
				return err
			}
			series, err := client.Telemetry().History(ctx, entity, params)
			if err != nil {
				return err
			}
			return writeSeries(cmd, series)
		}),
	}
	cmd.Flags().StringVarP(&keys, "keys", "k", "", "Comma separated keys (required)")
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "Window length ending at --end")
	cmd.Flags().StringVar(&start, "start", "", "Window start (RFC 3339, 2006-01-02, epoch ms or \"6h ago\"), overrides --since")
	cmd.Flags().StringVar(&end, "end", "", "Window end, same formats as --start (default now)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Aggregation interval")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum samples per key when not aggregating")
	cmd.Flags().StringVar(&agg, "agg", "", "Aggregation: MIN|MAX|AVG|SUM|COUNT|NONE")
	cmd.Flags().StringVar(&order, "order", "", "Sort order: ASC|DESC")
	return cmd
}

func newTelemetrySaveCmd() *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "save <[TYPE:]id|name>",
		Short: "Post time series data",
		Example: `  tb telemetry save "Boiler 7" --data '{"temperature":21.5}'
  echo '{"ts":1767225600000,"values":{"temperature":20}}' | tb telemetry save "Boiler 7" --data -`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			payload, err := callBody(cmd, data)
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			entity, err := resolveEntity(ctx, client, args[0], api.EntityDevice)
			if err != nil {
				return err
			}
			call := callWith("entityType", entity.EntityType, "entityId", entity.ID, "scope", "ANY")
			call.Body = payload
			if stop, err := previewOperation(cmd, client, "saveEntityTelemetry", call); stop {
				return err
			}
			if err := client.Telemetry().SaveTelemetry(ctx, entity, payload); err != nil {
				return err
			}
			printAction(cmd, "Saved", "telemetry for", entity.String(), "")
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"entity": entity, "saved": true})
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON payload, @file, or - for stdin")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newTelemetryDeleteCmd() *cobra.Command {
	var keys string
	cmd := &cobra.Command{
		Use:   "delete <[TYPE:]id|name>",
		Short: "Delete every sample of the given time series keys",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			keyList, err := parseKeys(keys)
			if err != nil {
				return err
			}
			if len(keyList) == 0 {
				return fmt.Errorf("--keys is required")
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			entity, err := resolveEntity(ctx, client, args[0], api.EntityDevice)
			if err != nil {
				return err
			}
			call := callWith("entityType", entity.EntityType, "entityId", entity.ID,
				"keys", strings.Join(keyList, ","), "deleteAllDataForKeys", true)
			if stop, err := previewOperation(cmd, client, "deleteEntityTimeseries", call); stop {
				return err
			}
			ok, err := confirmAction(cmd, confirmOptions{
				Prompt:        fmt.Sprintf("Delete all data of %s on %s? [y/N]: ", strings.Join(keyList, ", "), entity),
				CancelMessage: "Cancelled.",
			})
			if err != nil || !ok {
				return err
			}
			if err := client.Telemetry().DeleteTimeseries(ctx, entity, keyList); err != nil {
				return err
			}
			printAction(cmd, "Deleted", "time series", strings.Join(keyList, ","), entity.String())
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"entity": entity, "keys": keyList, "deleted": true})
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&keys, "keys", "k", "", "Comma separated keys (required)")
	return cmd
}

func normalizeScope(scope string) (string, error) {
	if scope == "" {
		return "", nil
	}
	s := strings.ToUpper(scope)
	if !strings.HasSuffix(s, "_SCOPE") {
		s += "_SCOPE"
	}
	for _, known := range api.AttributeScopes {
		if s == known {
			return s, nil
		}
	}
	return "", api.NewValidationError("--scope", scope, api.AttributeScopes)
}

func newTelemetryAttributesCmd() *cobra.Command {
	var keys, scope string
	cmd := &cobra.Command{
		Use:     "attributes <[TYPE:]id|name>",
		Aliases: []string{"attrs"},
		Short:   "Read attributes",
		Example: `  tb telemetry attributes "Boiler 7"
  tb telemetry attributes "Boiler 7" --scope shared --keys targetTemperature`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			keyList, err := parseKeys(keys)
			if err != nil {
				return err
			}
			normScope, err := normalizeScope(scope)
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			entity, err := resolveEntity(ctx, client, args[0], api.EntityDevice)
			if err != nil {
				return err
			}
			attrs, err := client.Telemetry().Attributes(ctx, entity, normScope, keyList)
			if err != nil {
				return err
			}
			sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })
			return renderList(cmd, attrs, table[api.AttributeKV]{
				headers: []string{"KEY", "VALUE", "UPDATED"},
				row: func(a api.AttributeKV) []string {
					return []string{a.Key, fmt.Sprint(a.Value), a.LastUpdateTs.String()}
				},
				empty: "No attributes.",
			})
		}),
	}
	cmd.Flags().StringVarP(&keys, "keys", "k", "", "Comma separated keys (default: all)")
	cmd.Flags().StringVar(&scope, "scope", "", "server|shared|client (default: all scopes)")
	return cmd
}

func newTelemetrySetAttributesCmd() *cobra.Command {
	var data, scope string
	cmd := &cobra.Command{
		Use:   "set-attributes <[TYPE:]id|name>",
		Short: "Write attributes",
		Example: `  tb telemetry set-attributes "Boiler 7" --scope shared --data '{"targetTemperature":22}'`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			normScope, err := normalizeScope(scope)
			if err != nil {
				return err
			}
			payload, err := callBody(cmd, data)
			if err != nil {
				return err
			}
			if _, ok := payload.(map[string]any); !ok {
				return fmt.Errorf("--data must be a JSON object")
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			entity, err := resolveEntity(ctx, client, args[0], api.EntityDevice)
			if err != nil {
				return err
			}
			call := callWith("entityType", entity.EntityType, "entityId", entity.ID, "scope", normScope)
			call.Body = payload
			if stop, err := previewOperation(cmd, client, "saveEntityAttributesV2", call); stop {
				return err
			}
			if err := client.Telemetry().SaveAttributes(ctx, entity, normScope, payload); err != nil {
				return err
			}
			printAction(cmd, "Saved", "attributes for", entity.String(), normScope)
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"entity": entity, "scope": normScope, "saved": true})
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON object, @file, or - for stdin")
	cmd.Flags().StringVar(&scope, "scope", "server", "server|shared (client attributes are device side)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newTelemetryWatchCmd() *cobra.Command {
	var (
		keys        string
		scope       string
		idleTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <[TYPE:]id|name>...",
		Short: "Stream live telemetry over WebSocket",
		Long: `Subscribe to live updates of one or more entities and print each update
as it arrives. Stop with Ctrl-C.`,
		Example: `  tb telemetry watch "Boiler 7"
  tb telemetry watch "Boiler 7" "Boiler 8" --keys temperature --output jsonl
  tb telemetry watch "Boiler 7" --scope shared`,
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			keyList, err := parseKeys(keys)
			if err != nil {
				return err
			}
			subScope := telemetryws.ScopeLatest
			if scope != "" && !strings.EqualFold(scope, "latest") {
				if subScope, err = normalizeScope(scope); err != nil {
					return err
				}
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			subs := make([]telemetryws.Subscription, 0, len(args))
			names := map[int]string{}
			for i, arg := range args {
				entity, err := resolveEntity(ctx, client, arg, api.EntityDevice)
				if err != nil {
					return err
				}
				sub := telemetryws.Subscription{
					CmdID:      i + 1,
					EntityType: entity.EntityType,
					EntityID:   entity.ID,
					Scope:      subScope,
					Keys:       keyList,
				}
				subs = append(subs, sub)
				names[sub.CmdID] = arg
			}

			wsURL, err := telemetryws.URL(client.BaseURL, client.Token)
			if err != nil {
				return err
			}
			conn, err := telemetryws.Connect(ctx, wsURL)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()
			if err := conn.Subscribe(ctx, subs...); err != nil {
				return err
			}
			slog.Debug("subscribed", "count", len(subs), "scope", subScope)
			if !isStructured(cmd) && !flags.Quiet {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), yellow("Watching "+strings.Join(args, ", ")+" (Ctrl-C to stop)"))
			}

			f := newFormatter(cmd)
			out := cmd.OutOrStdout()
			for update := range conn.ListenWithTimeout(ctx, idleTimeout) {
				if update.Err != nil {
					var subErr *telemetryws.SubscriptionError
					if errors.As(update.Err, &subErr) {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", red("Error:"), subErr)
						continue
					}
					if errors.Is(update.Err, telemetryws.ErrIdleTimeout) {
						slog.Debug("watch idle, stopping", "idle_timeout", idleTimeout)
						return nil
					}
					return update.Err
				}
				name := names[update.SubscriptionID]
				if f.Structured() {
					if err := f.Output(map[string]any{"entity": name, "values": update.Values}); err != nil {
						return err
					}
					continue
				}
				for _, row := range flattenSeries(update.Values) {
					_, _ = fmt.Fprintf(out, "%s %s %s=%v\n", row.Ts, bold(name), row.Key, row.Value)
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&keys, "keys", "k", "", "Comma separated keys (default: all)")
	cmd.Flags().StringVar(&scope, "scope", "latest", "latest|server|shared|client")
	cmd.Flags().DurationVar(&idleTimeout, "idle-timeout", 0, "Exit when no update arrives for this long (0 waits forever)")
	return cmd
}
