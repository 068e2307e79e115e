package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/dryrun"
	"github.com/thingsboard/tb-cli/internal/iocontext"
	"github.com/thingsboard/tb-cli/internal/outfmt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// getJQQuery returns the jq query from --jq or --query flags.
// --jq takes precedence over --query for consistency with gh CLI.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

// getClient creates an API client from the active profile, environment
// and flag overrides.
func getClient() (*api.Client, error) {
	return newClientFactory().authenticated()
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
}

// printJSON writes v through the structured pipeline. In text mode v is
// still printed as indented JSON, for commands without a table view.
func printJSON(cmd *cobra.Command, v any) error {
	f := newFormatter(cmd)
	if f.Structured() {
		return f.Output(v)
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.Out, v)
}

// printJSONErr writes a JSON value to stderr.
func printJSONErr(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.ErrOut, v)
}

// isStructured checks if the command context wants json, jsonl or yaml.
func isStructured(cmd *cobra.Command) bool {
	return outfmt.IsStructured(cmd.Context())
}

// cmdContext returns the command context
func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

func printAction(cmd *cobra.Command, action, resource, id, name string) {
	if flags.Quiet || isStructured(cmd) {
		return
	}
	message := fmt.Sprintf("%s %s", green(action), resource)
	if id != "" {
		message += " " + id
	}
	if name != "" {
		message += ": " + name
	}
	_, _ = fmt.Fprintln(iocontext.GetIO(cmd.Context()).Out, message)
}

// maybeDryRun prints what req would do when --dry-run is set and reports
// whether the caller must stop.
func maybeDryRun(cmd *cobra.Command, client *api.Client, operation string, req *api.Request) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	preview := dryrun.FromRequest(operation, client.BaseURL, req)
	if isStructured(cmd) {
		return true, printJSON(cmd, map[string]any{"dry_run": true, "request": preview})
	}
	preview.Write(iocontext.GetIO(cmd.Context()).Out)
	return true, nil
}

// buildOperation resolves operation against the endpoint table for a
// dry-run preview of a typed service call.
func buildOperation(operation string, call api.Call) (*api.Request, error) {
	ep, ok := api.Lookup(operation)
	if !ok {
		return nil, &api.UnknownOperationError{Operation: operation}
	}
	return ep.Build(call)
}

// previewOperation is maybeDryRun for a named operation.
func previewOperation(cmd *cobra.Command, client *api.Client, operation string, call api.Call) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	req, err := buildOperation(operation, call)
	if err != nil {
		return true, err
	}
	return maybeDryRun(cmd, client, operation, req)
}

// callWith is shorthand for a Call carrying named parameters. Empty
// strings are left out.
func callWith(kv ...any) api.Call {
	p := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if s, ok := kv[i+1].(string); ok && s == "" {
			continue
		}
		p[kv[i].(string)] = kv[i+1]
	}
	return api.Call{Params: p}
}

// writeItem prints a single entity: the value itself when structured,
// otherwise the label/value pairs.
func writeItem(cmd *cobra.Command, v any, pairs ...string) error {
	f := newFormatter(cmd)
	if f.Structured() {
		return f.Output(v)
	}
	return f.KeyValues(pairs...)
}

func splitCommaList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseKeyValue splits "key=value".
func parseKeyValue(field string) (string, string, error) {
	key, value, ok := strings.Cut(field, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("invalid field format %q: must be key=value", field)
	}
	return key, value, nil
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(iocontext.GetIO(cmd.Context()).In)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// readJSONInput reads and decodes a JSON document from path or stdin.
func readJSONInput(cmd *cobra.Command, path string) (any, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("no input data provided")
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}
	return v, nil
}

type confirmOptions struct {
	Prompt        string
	CancelMessage string
	Force         bool
}

// confirmAction asks for a "y" on stdin unless --yes or Force is set.
// Structured output cannot prompt, so it requires --yes.
func confirmAction(cmd *cobra.Command, opts confirmOptions) (bool, error) {
	if flags.Yes || opts.Force {
		return true, nil
	}
	if isStructured(cmd) {
		return false, fmt.Errorf("--yes is required when using structured output")
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	if opts.Prompt != "" {
		_, _ = fmt.Fprint(ioStreams.ErrOut, yellow(opts.Prompt))
	}
	response, err := bufio.NewReader(ioStreams.In).ReadString('\n')
	if (err != nil && response == "") || !strings.EqualFold(strings.TrimSpace(response), "y") {
		if opts.CancelMessage != "" {
			_, _ = fmt.Fprintln(ioStreams.ErrOut, opts.CancelMessage)
		}
		return false, nil
	}
	return true, nil
}

func red(text string) string    { return color.New(color.FgRed).Sprint(text) }
func green(text string) string  { return color.New(color.FgGreen).Sprint(text) }
func yellow(text string) string { return color.New(color.FgYellow).Sprint(text) }
func bold(text string) string   { return color.New(color.Bold).Sprint(text) }
