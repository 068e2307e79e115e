package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestEndpointTable_Integrity(t *testing.T) {
	seen := map[string]bool{}
	for i := range endpoints {
		ep := &endpoints[i]
		if seen[ep.Operation] {
			t.Errorf("duplicate operation %q", ep.Operation)
		}
		seen[ep.Operation] = true

		if !strings.HasPrefix(ep.Path, "/api/") {
			t.Errorf("%s: path %q must start with /api/", ep.Operation, ep.Path)
		}
		switch ep.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			t.Errorf("%s: unexpected method %q", ep.Operation, ep.Method)
		}
		if strings.Contains(ep.path, "{?") || strings.Contains(ep.path, "?") {
			t.Errorf("%s: compiled path still carries a query template: %q", ep.Operation, ep.path)
		}
		declared := map[string]bool{}
		for _, q := range ep.queryParams {
			declared[q] = true
		}
		for _, f := range ep.Form {
			declared[f] = true
		}
		for _, r := range ep.Required {
			if !declared[r] {
				t.Errorf("%s: required %q is neither a query nor a form parameter", ep.Operation, r)
			}
		}
		if len(ep.Form) > 0 && ep.Consumes == "" {
			t.Errorf("%s: form endpoint must declare Consumes", ep.Operation)
		}
	}
	if len(OperationNames()) != len(endpoints) {
		t.Errorf("index has %d entries, table %d", len(OperationNames()), len(endpoints))
	}
}

func TestEndpoint_Compile(t *testing.T) {
	ep, ok := Lookup("getAlarms")
	if !ok {
		t.Fatal("getAlarms not found")
	}
	if got := strings.Join(ep.PathParams(), ","); got != "entityType,entityId" {
		t.Errorf("PathParams = %s", got)
	}
	if got := ep.QueryParams(); len(got) != 10 || got[0] != "searchStatus" {
		t.Errorf("QueryParams = %v", got)
	}
	if got := strings.Join(ep.RequiredParams(), ","); got != "entityType,entityId,pageSize,page" {
		t.Errorf("RequiredParams = %s", got)
	}
}

func TestEndpoint_Build(t *testing.T) {
	ep, _ := Lookup("getCustomerDevices")
	req, err := ep.Build(Call{
		Params: map[string]any{
			"customerId": "a b/c",
			"pageSize":   10,
			"page":       0,
			"type":       "sensor",
			"unrelated":  "dropped",
		},
		Query: Query{"type": "gateway", "extra": "yes"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.Method != http.MethodGet {
		t.Errorf("Method = %s", req.Method)
	}
	if req.URL != "/api/customer/a%20b%2Fc/devices" {
		t.Errorf("URL = %s", req.URL)
	}
	if req.Query["type"] != "gateway" || req.Query["extra"] != "yes" || req.Query["pageSize"] != 10 {
		t.Errorf("Query = %v", req.Query)
	}
	if _, ok := req.Query["unrelated"]; ok {
		t.Error("undeclared params must not leak into the query")
	}
	if req.Body != nil {
		t.Errorf("GET must not carry a body, got %v", req.Body)
	}
	if req.Header.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", req.Header.Get("Accept"))
	}
}

func TestEndpoint_BuildForm(t *testing.T) {
	ep, _ := Lookup("uploadImage")
	req, err := ep.Build(Call{Params: map[string]any{"title": "logo", "file": pngBytes}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(req.Form) != 2 || req.Form[0].Name != "file" || req.Form[1].Name != "title" {
		t.Errorf("Form order = %v", req.Form)
	}
	if req.Header.Get("Content-Type") != "multipart/form-data" {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
}

func TestEndpoint_HeaderOverride(t *testing.T) {
	ep, _ := Lookup("downloadImage")
	req, err := ep.Build(Call{
		Params: map[string]any{"type": "tenant", "key": "logo.png"},
		Header: http.Header{"accept": {"image/*"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.Header.Get("Accept") != "image/*" {
		t.Errorf("Accept = %q", req.Header.Get("Accept"))
	}
}

func TestInvoke_MissingRequiredParameter(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		call      Call
		missing   string
	}{
		{"page size", "getTenants", Call{Params: map[string]any{"page": 0}}, "pageSize"},
		{"page", "getTenants", Call{Params: map[string]any{"pageSize": 10}}, "page"},
		{"nil counts as missing", "getTenants", Call{Params: map[string]any{"pageSize": nil, "page": 0}}, "pageSize"},
		{"path param", "getDeviceById", Call{}, "deviceId"},
		{"path before query", "getCustomerDevices", Call{}, "customerId"},
		{"body", "saveDevice", Call{}, "body"},
		{"form field", "uploadImage", Call{Params: map[string]any{"title": "x"}}, "file"},
		{"relation", "deleteRelation", Call{Params: map[string]any{"fromId": "1", "fromType": "DEVICE"}}, "relationType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, calls := newMockClient(t, func(r *http.Request) (*http.Response, error) {
				return mockResponse(http.StatusOK, "application/json", `{}`), nil
			})

			_, err := client.Invoke(context.Background(), tt.operation, tt.call)
			var missing *MissingParameterError
			if !errors.As(err, &missing) {
				t.Fatalf("expected *MissingParameterError, got %v", err)
			}
			if missing.Name != tt.missing {
				t.Errorf("Name = %q, want %q", missing.Name, tt.missing)
			}
			if err.Error() != "Missing required parameter: "+tt.missing {
				t.Errorf("message = %q", err.Error())
			}
			if calls.Load() != 0 {
				t.Errorf("expected zero network calls, got %d", calls.Load())
			}
		})
	}
}

func TestInvoke_UnknownOperation(t *testing.T) {
	client, calls := newMockClient(t, func(r *http.Request) (*http.Response, error) {
		return mockResponse(http.StatusOK, "", ""), nil
	})
	_, err := client.Invoke(context.Background(), "getDevise", Call{})
	var unknown *UnknownOperationError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownOperationError, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected zero network calls, got %d", calls.Load())
	}
}

func TestInvoke_EndToEnd(t *testing.T) {
	var got *http.Request
	client, calls := newMockClient(t, func(r *http.Request) (*http.Response, error) {
		got = r
		return mockResponse(http.StatusOK, "application/json", `{"data":[],"totalPages":0,"totalElements":0,"hasNext":false}`), nil
	})

	res, err := client.Invoke(context.Background(), "getTenants", Call{
		Params: map[string]any{"pageSize": 20, "page": 1, "sortOrder": "ASC"},
		Query:  Query{"page": 2},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d", calls.Load())
	}
	if got.URL.Path != "/api/tenants" {
		t.Errorf("path = %s", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("pageSize") != "20" || q.Get("page") != "2" || q.Get("sortOrder") != "ASC" {
		t.Errorf("query = %v", q)
	}
	if res.Kind != KindSuccess || !res.Parsed {
		t.Errorf("result = %+v", res)
	}
}

func TestOperations_Sorted(t *testing.T) {
	ops := Operations()
	for i := 1; i < len(ops); i++ {
		prev, cur := ops[i-1], ops[i]
		if prev.Tag > cur.Tag || (prev.Tag == cur.Tag && prev.Operation > cur.Operation) {
			t.Fatalf("not sorted at %d: %s/%s before %s/%s", i, prev.Tag, prev.Operation, cur.Tag, cur.Operation)
		}
	}
}
