package cmd

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/thingsboard/tb-cli/internal/api"
)

func newAPICmd() *cobra.Command {
	var (
		method         string
		fields         []string
		rawFields      []string
		inputFile      string
		jsonBody       string
		formFields     []string
		files          []string
		queryParams    []string
		headers        []string
		silent         bool
		includeHeaders bool
	)

	cmd := &cobra.Command{
		Use:     "api <path>",
		Aliases: []string{"ap"},
		Short:   "Make raw requests to any ThingsBoard endpoint",
		Long: `Make raw requests to any ThingsBoard REST endpoint.

The path is relative to the server base URL, e.g. /api/tenant/devices.
Body fields given with -f/-F accept dotted paths (additionalInfo.gateway)
and are merged over a body read from --body or --input.

--form sends an urlencoded body; --file switches to multipart and
uploads the first form field only, with the filename taken from its content.`,
		Example: `  # GET with query parameters
  tb api /api/tenant/devices -p pageSize=10 -p page=0

  # POST with dotted body fields
  tb api /api/device -X POST -f name=Thermostat -f type=default -F additionalInfo.gateway=false

  # Body from stdin
  echo '{"name":"Pump"}' | tb api /api/asset -X POST -i -

  # Upload an image
  tb api /api/image -X POST --file file=@logo.png --form title=Logo

  # Status and headers as JSON
  tb api /api/auth/user --include --json`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			method = strings.ToUpper(method)
			switch method {
			case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				return api.NewValidationError("--method", method, []string{"GET", "POST", "PUT", "PATCH", "DELETE"})
			}
			if jsonBody != "" && inputFile != "" {
				return fmt.Errorf("cannot use both --body and --input flags")
			}
			hasBody := jsonBody != "" || inputFile != "" || len(fields) > 0 || len(rawFields) > 0
			if hasBody && (len(formFields) > 0 || len(files) > 0) {
				return fmt.Errorf("cannot combine a JSON body with --form or --file")
			}

			req := &api.Request{Method: method, URL: args[0], Header: http.Header{}}
			if !strings.HasPrefix(req.URL, "/") && !strings.Contains(req.URL, "://") {
				req.URL = "/" + req.URL
			}
			for _, h := range headers {
				name, value, ok := strings.Cut(h, ":")
				if !ok || strings.TrimSpace(name) == "" {
					return fmt.Errorf("invalid header %q: must be 'Name: value'", h)
				}
				req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
			}
			if len(queryParams) > 0 {
				req.Query = api.Query{}
				for _, p := range queryParams {
					key, value, err := parseKeyValue(p)
					if err != nil {
						return err
					}
					req.Query[key] = appendQueryValue(req.Query[key], value)
				}
			}

			if hasBody {
				body, err := buildRequestBody(cmd, fields, rawFields, inputFile, jsonBody)
				if err != nil {
					return err
				}
				req.Body = body
				if req.Header.Get("Content-Type") == "" {
					req.Header.Set("Content-Type", "application/json")
				}
			}
			form, err := buildForm(files, formFields)
			if err != nil {
				return err
			}
			if len(form) > 0 {
				req.Form = form
				if len(files) > 0 {
					req.Header.Set("Content-Type", "multipart/form-data")
				}
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			if stop, err := maybeDryRun(cmd, client, "", req); stop {
				return err
			}

			result, err := client.Dispatch(cmdContext(cmd), req)
			if err != nil {
				return err
			}
			if silent {
				return nil
			}
			return writeAPIResult(cmd, result, includeHeaders)
		}),
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method (GET, POST, PUT, PATCH, DELETE)")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Body field as key=value (string), dotted keys allowed")
	cmd.Flags().StringArrayVarP(&rawFields, "raw-field", "F", nil, "Body field as key=value (JSON parsed), dotted keys allowed")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Read request body from file (use - for stdin)")
	cmd.Flags().StringVarP(&jsonBody, "body", "d", "", "Request body as inline JSON")
	cmd.Flags().StringArrayVar(&formFields, "form", nil, "Form field as key=value")
	cmd.Flags().StringArrayVar(&files, "file", nil, "Multipart file as field=@path")
	cmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Extra request header as 'Name: value'")
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "Suppress output")
	cmd.Flags().BoolVar(&includeHeaders, "include", false, "Include status and response headers in output")
	flagAlias(cmd.Flags(), "include", "inc")

	return cmd
}

func appendQueryValue(existing any, value string) any {
	switch v := existing.(type) {
	case nil:
		return value
	case string:
		return []string{v, value}
	case []string:
		return append(v, value)
	default:
		return value
	}
}

// buildRequestBody starts from the inline or file body and sets each field
// at its dotted path.
func buildRequestBody(cmd *cobra.Command, fields, rawFields []string, inputFile, jsonBody string) ([]byte, error) {
	body := []byte("{}")
	switch {
	case jsonBody != "":
		if !json.Valid([]byte(jsonBody)) {
			return nil, fmt.Errorf("failed to parse --body JSON")
		}
		body = []byte(jsonBody)
	case inputFile != "":
		data, err := readInput(cmd, inputFile)
		if err != nil {
			return nil, err
		}
		if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
			if !json.Valid([]byte(trimmed)) {
				return nil, fmt.Errorf("invalid JSON input in %s", inputFile)
			}
			body = []byte(trimmed)
		}
	}

	var err error
	for _, f := range fields {
		key, value, perr := parseKeyValue(f)
		if perr != nil {
			return nil, perr
		}
		if body, err = sjson.SetBytes(body, key, value); err != nil {
			return nil, fmt.Errorf("failed to set field %s: %w", key, err)
		}
	}
	for _, f := range rawFields {
		key, value, perr := parseKeyValue(f)
		if perr != nil {
			return nil, perr
		}
		if json.Valid([]byte(value)) {
			body, err = sjson.SetRawBytes(body, key, []byte(value))
		} else {
			body, err = sjson.SetBytes(body, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to set field %s: %w", key, err)
		}
	}
	return body, nil
}

// buildForm puts files first so a single-part upload sends the file.
func buildForm(files, formFields []string) (api.Form, error) {
	var form api.Form
	for _, f := range files {
		name, ref, err := parseKeyValue(f)
		if err != nil {
			return nil, err
		}
		path := strings.TrimPrefix(ref, "@")
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		form.Add(name, content)
	}
	for _, f := range formFields {
		name, value, err := parseKeyValue(f)
		if err != nil {
			return nil, err
		}
		form.Add(name, value)
	}
	return form, nil
}

func writeAPIResult(cmd *cobra.Command, result *api.Result, includeHeaders bool) error {
	if isStructured(cmd) {
		if !includeHeaders {
			return printJSON(cmd, result.Body)
		}
		return printJSON(cmd, map[string]any{
			"status":  result.StatusCode,
			"headers": result.Header,
			"body":    result.Body,
		})
	}

	out := cmd.OutOrStdout()
	if includeHeaders {
		_, _ = fmt.Fprintf(out, "HTTP %d\n", result.StatusCode)
		keys := make([]string, 0, len(result.Header))
		for k := range result.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, v := range result.Header[k] {
				_, _ = fmt.Fprintf(out, "%s: %s\n", k, v)
			}
		}
		_, _ = fmt.Fprintln(out)
	}

	switch {
	case result.Kind == api.KindNoContent:
		return nil
	case result.Parsed:
		return printJSON(cmd, result.Body)
	case len(result.Raw) > 0:
		_, _ = fmt.Fprintln(out, string(result.Raw))
	}
	return nil
}
