// Package filter runs jq expressions over API responses with gojq.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NormalizeExpression undoes shell escaping of jq operators. Zsh turns ! into
// \! even inside single quotes, which breaks !=.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// compilerOptions add ThingsBoard helpers to every expression:
//
//	millis   converts a millisecond timestamp to RFC 3339
//	entityid joins an {id, entityType} object into TYPE:id
var compilerOptions = []gojq.CompilerOption{
	gojq.WithFunction("millis", 0, 0, func(v any, _ []any) any {
		switch ms := v.(type) {
		case float64:
			return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
		case int:
			return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
		case nil:
			return nil
		}
		return fmt.Errorf("millis: expected a number, got %T", v)
	}),
	gojq.WithFunction("entityid", 0, 0, func(v any, _ []any) any {
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("entityid: expected an object, got %T", v)
		}
		return fmt.Sprintf("%v:%v", m["entityType"], m["id"])
	}),
}

// Compile parses and compiles expression.
func Compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(NormalizeExpression(expression))
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	code, err := gojq.Compile(query, compilerOptions...)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return code, nil
}

// Apply runs expression over data. A single result is returned as is, several
// results as a slice. Expressions that iterate the root (.[]) and fail on a
// ThingsBoard page object are retried against its data array.
func Apply(data any, expression string) (any, error) {
	if expression == "" {
		return data, nil
	}
	code, err := Compile(expression)
	if err != nil {
		return nil, err
	}

	results, err := run(code, data)
	if err != nil {
		if rows, ok := pageRows(data, expression); ok {
			if retried, retryErr := run(code, rows); retryErr == nil {
				return collapse(retried), nil
			}
		}
		return nil, err
	}
	return collapse(results), nil
}

func run(code *gojq.Code, data any) ([]any, error) {
	iter := code.Run(data)
	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			return results, nil
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}
}

func collapse(results []any) any {
	if len(results) == 1 {
		return results[0]
	}
	return results
}

func pageRows(data any, expression string) (any, bool) {
	expr := strings.TrimSpace(expression)
	if !strings.HasPrefix(expr, ".[]") && !strings.HasPrefix(expr, "[.[]") && !strings.HasPrefix(expr, "map(") {
		return nil, false
	}
	m, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, key := range []string{"data", "items"} {
		if rows, ok := m[key].([]any); ok {
			return rows, true
		}
	}
	return nil, false
}

// ApplyFromJSON decodes jsonData and applies expression.
func ApplyFromJSON(jsonData []byte, expression string) (any, error) {
	var data any
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Apply(data, expression)
}

// ApplyToJSON applies expression and returns pretty-printed JSON.
func ApplyToJSON(jsonData []byte, expression string) ([]byte, error) {
	if expression == "" {
		return jsonData, nil
	}
	result, err := ApplyFromJSON(jsonData, expression)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}
