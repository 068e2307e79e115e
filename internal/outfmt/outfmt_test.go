package outfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input       string
		expected    Mode
		expectError bool
	}{
		{"text", Text, false},
		{"", Text, false},
		{"table", Text, false},
		{"json", JSON, false},
		{"JSON", JSON, false},
		{"jsonl", JSONL, false},
		{"ndjson", JSONL, false},
		{"yaml", YAML, false},
		{"yml", YAML, false},
		{"agent", Text, true},
		{"invalid", Text, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := Parse(tt.input)
			if tt.expectError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !tt.expectError && mode != tt.expected {
				t.Errorf("Expected mode %v, got %v", tt.expected, mode)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	for mode, want := range map[Mode]string{Text: "text", JSON: "json", JSONL: "jsonl", YAML: "yaml"} {
		if mode.String() != want {
			t.Errorf("%d.String() = %q, want %q", mode, mode.String(), want)
		}
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if ModeFromContext(ctx) != Text || IsStructured(ctx) || IsJSON(ctx) || IsCompact(ctx) {
		t.Fatal("empty context should default to text output")
	}

	ctx = WithMode(ctx, JSONL)
	if !IsJSON(ctx) || !IsStructured(ctx) {
		t.Error("JSONL should count as JSON output")
	}
	if IsJSON(WithMode(ctx, YAML)) {
		t.Error("YAML is not JSON")
	}
	if !IsCompact(WithCompact(ctx, true)) {
		t.Error("compact flag lost")
	}
	if GetQuery(WithQuery(ctx, ".name")) != ".name" {
		t.Error("query lost")
	}
	if GetTemplate(WithTemplate(ctx, "{{.name}}")) != "{{.name}}" {
		t.Error("template lost")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]any{"name": "<pump>"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	want := "{\n  \"name\": \"<pump>\"\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := WriteJSONMaybeCompact(&buf, map[string]int{"a": 1}, true); err != nil {
		t.Fatalf("WriteJSONMaybeCompact: %v", err)
	}
	if buf.String() != "{\"a\":1}\n" {
		t.Errorf("compact = %q", buf.String())
	}
}

func TestWriteJSONLines(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONLines(&buf, []map[string]string{{"name": "a"}, {"name": "b"}}); err != nil {
		t.Fatalf("WriteJSONLines: %v", err)
	}
	if buf.String() != "{\"name\":\"a\"}\n{\"name\":\"b\"}\n" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	page := map[string]any{"data": []any{"x", "y"}, "hasNext": false}
	if err := WriteJSONLines(&buf, page); err != nil {
		t.Fatalf("WriteJSONLines page: %v", err)
	}
	if buf.String() != "\"x\"\n\"y\"\n" {
		t.Errorf("page rows = %q", buf.String())
	}

	buf.Reset()
	if err := WriteJSONLines(&buf, map[string]int{"n": 1}); err != nil {
		t.Fatalf("WriteJSONLines object: %v", err)
	}
	if buf.String() != "{\"n\":1}\n" {
		t.Errorf("object = %q", buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	type device struct {
		Name  string `json:"name"`
		Label string `json:"label,omitempty"`
		Type  string `json:"type"`
	}
	var buf bytes.Buffer
	if err := WriteYAML(&buf, device{Name: "pump", Type: "default"}); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "name: pump") || !strings.Contains(out, "type: default") {
		t.Errorf("yaml = %q", out)
	}
	if strings.Contains(out, "label") {
		t.Errorf("json omitempty should apply: %q", out)
	}
}
