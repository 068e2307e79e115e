package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
)

func newCallCmd() *cobra.Command {
	var (
		params      []string
		queryParams []string
		body        string
		files       []string
		headers     []string
		silent      bool
	)

	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Invoke a REST operation by name",
		Long: `Invoke any operation of the endpoint table by name.

Path, query and form parameters are passed with --param. Every required
parameter is checked before anything is sent. --query-param adds free-form
query parameters that override declared ones of the same name.

Use 'tb ops' to list operations and 'tb ops --show <operation>' to see
their parameters.`,
		Example: `  tb call getDeviceById --param deviceId=784f394c-42b6-435a-983c-b7beff2784f9
  tb call getTenantDevices --param pageSize=10 --param page=0 --query-param type=thermostat
  tb call saveDevice --body '{"name":"Pump","type":"default"}' --param accessToken=A1b2
  tb call uploadImage --file file=@logo.png
  tb call uploadImage --file file=@logo.png --param title=Logo --multipart-all-fields`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			operation := args[0]
			if _, ok := api.Lookup(operation); !ok {
				return &api.UnknownOperationError{
					Operation:   operation,
					Suggestions: suggestOperations(operation, api.OperationNames()),
				}
			}

			call := api.Call{Params: map[string]any{}}
			for _, p := range params {
				key, value, err := parseKeyValue(p)
				if err != nil {
					return err
				}
				call.Params[key] = value
			}
			for _, f := range files {
				key, ref, err := parseKeyValue(f)
				if err != nil {
					return err
				}
				path := strings.TrimPrefix(ref, "@")
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				call.Params[key] = content
			}
			for _, q := range queryParams {
				key, value, err := parseKeyValue(q)
				if err != nil {
					return err
				}
				if call.Query == nil {
					call.Query = api.Query{}
				}
				call.Query[key] = appendQueryValue(call.Query[key], value)
			}
			for _, h := range headers {
				name, value, ok := strings.Cut(h, ":")
				if !ok || strings.TrimSpace(name) == "" {
					return fmt.Errorf("invalid header %q: must be 'Name: value'", h)
				}
				if call.Header == nil {
					call.Header = http.Header{}
				}
				call.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
			}
			if body != "" {
				v, err := callBody(cmd, body)
				if err != nil {
					return err
				}
				call.Body = v
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			if stop, err := previewOperation(cmd, client, operation, call); stop {
				return err
			}

			result, err := client.Invoke(cmdContext(cmd), operation, call)
			if err != nil {
				return err
			}
			if silent {
				return nil
			}
			return writeAPIResult(cmd, result, false)
		}),
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "Operation parameter as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&queryParams, "query-param", nil, "Extra query parameter as key=value")
	cmd.Flags().StringVarP(&body, "body", "d", "", "Request body: inline JSON, @file, or - for stdin")
	cmd.Flags().StringArrayVar(&files, "file", nil, "File parameter as name=@path")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Extra request header as 'Name: value'")
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "Suppress output")
	flagAlias(cmd.Flags(), "query-param", "qp")
	return cmd
}

func callBody(cmd *cobra.Command, body string) (any, error) {
	switch {
	case body == "-":
		return readJSONInput(cmd, "-")
	case strings.HasPrefix(body, "@"):
		return readJSONInput(cmd, strings.TrimPrefix(body, "@"))
	}
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return nil, fmt.Errorf("failed to parse --body JSON: %w", err)
	}
	return v, nil
}

func newOpsCmd() *cobra.Command {
	var show string

	cmd := &cobra.Command{
		Use:     "ops [filter]",
		Aliases: []string{"operations"},
		Short:   "List the REST operations available to 'tb call'",
		Example: `  tb ops
  tb ops device
  tb ops --show getDeviceById`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if show != "" {
				ep, ok := api.Lookup(show)
				if !ok {
					return &api.UnknownOperationError{
						Operation:   show,
						Suggestions: suggestOperations(show, api.OperationNames()),
					}
				}
				return writeOperation(cmd, ep)
			}

			filter := ""
			if len(args) == 1 {
				filter = strings.ToLower(args[0])
			}
			var rows []operationRow
			for _, ep := range api.Operations() {
				if filter != "" &&
					!strings.Contains(strings.ToLower(ep.Operation), filter) &&
					!strings.Contains(strings.ToLower(ep.Tag), filter) &&
					!strings.Contains(strings.ToLower(ep.Path), filter) {
					continue
				}
				rows = append(rows, newOperationRow(ep))
			}
			return renderList(cmd, rows, table[operationRow]{
				headers: []string{"OPERATION", "TAG", "METHOD", "PATH"},
				row: func(r operationRow) []string {
					return []string{r.Operation, r.Tag, r.Method, r.Path}
				},
				empty: "No operations match.",
			})
		}),
	}
	cmd.Flags().StringVar(&show, "show", "", "Show the parameters of one operation")
	return cmd
}

type operationRow struct {
	Operation   string   `json:"operation"`
	Tag         string   `json:"tag"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Summary     string   `json:"summary,omitempty"`
	PathParams  []string `json:"path_params,omitempty"`
	QueryParams []string `json:"query_params,omitempty"`
	Form        []string `json:"form,omitempty"`
	Required    []string `json:"required,omitempty"`
	Body        string   `json:"body"`
	Consumes    string   `json:"consumes,omitempty"`
}

func newOperationRow(ep *api.Endpoint) operationRow {
	body := "none"
	switch ep.Body {
	case api.BodyOptional:
		body = "optional"
	case api.BodyRequired:
		body = "required"
	}
	return operationRow{
		Operation:   ep.Operation,
		Tag:         ep.Tag,
		Method:      ep.Method,
		Path:        ep.Path,
		Summary:     ep.Summary,
		PathParams:  ep.PathParams(),
		QueryParams: ep.QueryParams(),
		Form:        ep.Form,
		Required:    ep.RequiredParams(),
		Body:        body,
		Consumes:    ep.Consumes,
	}
}

func writeOperation(cmd *cobra.Command, ep *api.Endpoint) error {
	row := newOperationRow(ep)
	f := newFormatter(cmd)
	if f.Structured() {
		return f.Output(row)
	}
	pairs := []string{
		"Operation", row.Operation,
		"Method", row.Method,
		"Path", row.Path,
		"Tag", row.Tag,
	}
	if row.Summary != "" {
		pairs = append(pairs, "Summary", row.Summary)
	}
	pairs = append(pairs,
		"Required", strings.Join(row.Required, ", "),
		"Query", strings.Join(row.QueryParams, ", "),
		"Body", row.Body,
	)
	if len(row.Form) > 0 {
		pairs = append(pairs, "Form", strings.Join(row.Form, ", "))
	}
	if row.Consumes != "" {
		pairs = append(pairs, "Consumes", row.Consumes)
	}
	return f.KeyValues(pairs...)
}
