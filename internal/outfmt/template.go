package outfmt

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"
	"time"
)

type templateKey struct{}

// WithTemplate adds a Go template to the context.
func WithTemplate(ctx context.Context, tmpl string) context.Context {
	return context.WithValue(ctx, templateKey{}, tmpl)
}

// GetTemplate returns the Go template from context.
func GetTemplate(ctx context.Context) string {
	tmpl, _ := ctx.Value(templateKey{}).(string)
	return tmpl
}

var templateFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		data, err := json.MarshalIndent(v, "", "  ")
		return string(data), err
	},
	"millis": func(v any) string {
		var ms int64
		switch n := v.(type) {
		case float64:
			ms = int64(n)
		case int64:
			ms = n
		case int:
			ms = int64(n)
		default:
			return fmt.Sprint(v)
		}
		return time.UnixMilli(ms).UTC().Format(time.RFC3339)
	},
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
}

// WriteTemplate renders v with tmpl. v should hold plain JSON values so
// templates address fields by their API names ({{.name}}).
func WriteTemplate(w io.Writer, v any, tmpl string) error {
	t, err := template.New("output").Funcs(templateFuncs).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return templateError("invalid template", err)
	}
	if err := t.Execute(w, v); err != nil {
		return templateError("template execution error", err)
	}
	return nil
}

var templateLocation = regexp.MustCompile(`:(\d+)(?::(\d+))?:`)

func templateError(kind string, err error) error {
	if m := templateLocation.FindStringSubmatch(err.Error()); m != nil {
		if m[2] != "" {
			return fmt.Errorf("%s at line %s, column %s: %w", kind, m[1], m[2], err)
		}
		return fmt.Errorf("%s at line %s: %w", kind, m[1], err)
	}
	return fmt.Errorf("%s: %w", kind, err)
}
