package filter

import (
	"strings"
	"testing"
)

func TestApply_EmptyExpression(t *testing.T) {
	data := map[string]any{"name": "test"}
	result, err := Apply(data, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["name"] != "test" {
		t.Error("empty expression should return data unchanged")
	}
}

func TestApply_SelectField(t *testing.T) {
	result, err := Apply(map[string]any{"name": "pump", "type": "default"}, ".name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "pump" {
		t.Errorf("expected 'pump', got %v", result)
	}
}

func TestApply_MultipleResults(t *testing.T) {
	data := []any{
		map[string]any{"severity": "CRITICAL"},
		map[string]any{"severity": "MINOR"},
		map[string]any{"severity": "CRITICAL"},
	}
	result, err := Apply(data, `.[] | select(.severity == "CRITICAL")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows, ok := result.([]any); !ok || len(rows) != 2 {
		t.Errorf("expected two results, got %v", result)
	}
}

func TestApply_ShellEscapedNotEqual(t *testing.T) {
	result, err := Apply(map[string]any{"status": "ACTIVE_UNACK"}, `.status \!= "CLEARED_ACK"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != true {
		t.Errorf("expected true, got %v", result)
	}
}

func TestApply_PageFallback(t *testing.T) {
	page := map[string]any{
		"data": []any{
			map[string]any{"name": "a"},
			map[string]any{"name": "b"},
		},
		"totalElements": 2.0,
		"hasNext":       false,
	}
	result, err := Apply(page, ".[] | .name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names, ok := result.([]any)
	if !ok || len(names) != 2 || names[0] != "a" {
		t.Errorf("expected [a b], got %v", result)
	}
}

func TestApply_ThingsBoardFunctions(t *testing.T) {
	data := map[string]any{
		"id":          map[string]any{"id": "d1", "entityType": "DEVICE"},
		"createdTime": 1700000000000.0,
	}
	got, err := Apply(data, ".createdTime | millis")
	if err != nil {
		t.Fatalf("millis: %v", err)
	}
	if got != "2023-11-14T22:13:20Z" {
		t.Errorf("millis = %v", got)
	}

	got, err = Apply(data, ".id | entityid")
	if err != nil {
		t.Fatalf("entityid: %v", err)
	}
	if got != "DEVICE:d1" {
		t.Errorf("entityid = %v", got)
	}

	if _, err := Apply(data, ".id | millis"); err == nil {
		t.Error("millis on an object should fail")
	}
}

func TestApply_InvalidExpression(t *testing.T) {
	_, err := Apply(map[string]any{}, "invalid[[[")
	if err == nil || !strings.Contains(err.Error(), "invalid filter expression") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestApplyToJSON(t *testing.T) {
	out, err := ApplyToJSON([]byte(`{"data":[{"name":"x"}]}`), ".data[0].name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `"x"` {
		t.Errorf("got %s", out)
	}

	raw := []byte(`{"a":1}`)
	same, _ := ApplyToJSON(raw, "")
	if string(same) != string(raw) {
		t.Error("empty expression should return input")
	}

	if _, err := ApplyFromJSON([]byte("{"), "."); err == nil {
		t.Error("expected invalid JSON error")
	}
}
