package dryrun

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/thingsboard/tb-cli/internal/api"
)

func TestWithDryRun(t *testing.T) {
	if !IsEnabled(WithDryRun(context.Background(), true)) {
		t.Error("IsEnabled should return true when dry-run is enabled")
	}
	if IsEnabled(WithDryRun(context.Background(), false)) {
		t.Error("IsEnabled should return false when dry-run is disabled")
	}
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
}

func TestFromRequest(t *testing.T) {
	ep, ok := api.Lookup("saveDevice")
	if !ok {
		t.Fatal("saveDevice missing")
	}
	req, err := ep.Build(api.Call{
		Params: map[string]any{"accessToken": "A1"},
		Body:   map[string]any{"name": "pump"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	p := FromRequest("saveDevice", "https://tb.example.com/", req)
	if p.Method != http.MethodPost || p.URL != "https://tb.example.com/api/device" {
		t.Errorf("preview = %+v", p)
	}
	if p.Query["accessToken"] != "A1" {
		t.Errorf("query = %v", p.Query)
	}

	var buf bytes.Buffer
	p.Write(&buf)
	out := buf.String()
	for _, want := range []string{"[DRY-RUN] Would send saveDevice: POST https://tb.example.com/api/device", "accessToken=A1", "Body:\n  {\n    \"name\": \"pump\"\n  }\n", "No changes made"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFromRequest_DeleteWarnsAndForm(t *testing.T) {
	p := FromRequest("", "https://tb.example.com", &api.Request{Method: http.MethodDelete, URL: "/api/device/d1"})
	if len(p.Warnings) != 1 {
		t.Errorf("warnings = %v", p.Warnings)
	}

	upload := FromRequest("uploadImage", "https://tb.example.com", &api.Request{
		Method: http.MethodPost,
		URL:    "/api/image",
		Form:   api.Form{{Name: "file", Value: []byte{1, 2}}, {Name: "title", Value: "x"}},
		Body:   []byte("raw"),
	})
	if strings.Join(upload.Form, ",") != "file,title" {
		t.Errorf("form = %v", upload.Form)
	}
	if upload.Body != "<3 bytes>" {
		t.Errorf("body = %v", upload.Body)
	}
}
