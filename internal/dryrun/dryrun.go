// Package dryrun previews mutating requests without sending them.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/thingsboard/tb-cli/internal/api"
)

type contextKey struct{}

// WithDryRun returns a context with dry-run mode enabled or disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled reports whether dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}

// Preview describes a request that would have been sent.
type Preview struct {
	Operation string         `json:"operation,omitempty"`
	Method    string         `json:"method"`
	URL       string         `json:"url"`
	Query     map[string]any `json:"query,omitempty"`
	Form      []string       `json:"form,omitempty"`
	Body      any            `json:"body,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// FromRequest builds a preview of req as it would be sent to baseURL.
func FromRequest(operation, baseURL string, req *api.Request) *Preview {
	p := &Preview{
		Operation: operation,
		Method:    req.Method,
		URL:       req.URL,
		Body:      req.Body,
	}
	if p.Method == "" {
		p.Method = http.MethodGet
	}
	if strings.HasPrefix(p.URL, "/") {
		p.URL = strings.TrimRight(baseURL, "/") + p.URL
	}
	if len(req.Query) > 0 {
		p.Query = req.Query
	}
	for _, f := range req.Form {
		p.Form = append(p.Form, f.Name)
	}
	if b, ok := p.Body.([]byte); ok {
		p.Body = fmt.Sprintf("<%d bytes>", len(b))
	}
	if p.Method == http.MethodDelete {
		p.Warnings = append(p.Warnings, "deletion cannot be undone")
	}
	return p
}

// Write renders the preview for humans.
func (p *Preview) Write(w io.Writer) {
	title := p.Method + " " + p.URL
	if p.Operation != "" {
		title = p.Operation + ": " + title
	}
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would send %s\n", title)

	if len(p.Query) > 0 {
		keys := make([]string, 0, len(p.Query))
		for k := range p.Query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		_, _ = fmt.Fprintln(w, "Query:")
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s=%v\n", k, p.Query[k])
		}
	}
	if len(p.Form) > 0 {
		_, _ = fmt.Fprintf(w, "Form fields: %s\n", strings.Join(p.Form, ", "))
	}
	if p.Body != nil {
		body, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(p.Body, "", "  ")
		if err != nil {
			body = []byte(fmt.Sprint(p.Body))
		}
		_, _ = fmt.Fprintf(w, "Body:\n  %s\n", strings.ReplaceAll(string(body), "\n", "\n  "))
	}
	for _, warning := range p.Warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}
