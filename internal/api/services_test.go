package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// serve starts a test server and returns a client bound to it.
func serve(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newTestClient(server.URL, "test-token")
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

// recordingInvoker captures calls made through the Invoker interface.
type recordingInvoker struct {
	operation string
	call      Call
	result    *Result
	err       error
}

func (r *recordingInvoker) Invoke(_ context.Context, operation string, call Call) (*Result, error) {
	r.operation = operation
	r.call = call
	if r.result == nil && r.err == nil {
		return &Result{Kind: KindNoContent}, nil
	}
	return r.result, r.err
}

func TestAuth_Login(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Username != "tenant@thingsboard.org" || body.Password != "tenant" {
			t.Errorf("body = %+v", body)
		}
		writeJSON(w, `{"token":"jwt","refreshToken":"refresh"}`)
	})

	tokens, err := client.Auth().Login(context.Background(), "tenant@thingsboard.org", "tenant")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tokens.Token != "jwt" || tokens.RefreshToken != "refresh" {
		t.Errorf("tokens = %+v", tokens)
	}
}

func TestLogin_Validation(t *testing.T) {
	inv := &recordingInvoker{}
	if _, err := login(context.Background(), inv, " ", "x"); !IsAuthError(err) {
		t.Errorf("empty username: err = %v", err)
	}
	if inv.operation != "" {
		t.Error("no call expected for an empty username")
	}

	inv = &recordingInvoker{result: &Result{Kind: KindSuccess, Raw: []byte(`{}`)}}
	if _, err := login(context.Background(), inv, "u", "p"); !IsAuthError(err) {
		t.Errorf("missing token: err = %v", err)
	}
}

func TestAuth_BadCredentials(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":401,"message":"Invalid username or password","errorCode":10}`))
	})

	_, err := client.Auth().Login(context.Background(), "u", "bad")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Invalid username or password" || apiErr.Code != tbAuthentication {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestDevices_List(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tenant/devices" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("pageSize") != "25" || q.Get("page") != "0" || q.Get("type") != "thermostat" {
			t.Errorf("query = %v", q)
		}
		if q.Has("textSearch") {
			t.Error("empty textSearch should be omitted")
		}
		writeJSON(w, `{"data":[{"id":{"id":"d1","entityType":"DEVICE"},"name":"T-1","type":"thermostat"}],"totalPages":1,"totalElements":1,"hasNext":false}`)
	})

	page, err := client.Devices().List(context.Background(), TypedPageParams{PageParams: DefaultPage(25), Type: "thermostat"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "T-1" {
		t.Errorf("page = %+v", page)
	}
}

func TestDevices_ListInvalidParamsNoCall(t *testing.T) {
	client, calls := newMockClient(t, func(r *http.Request) (*http.Response, error) {
		return mockResponse(http.StatusOK, "application/json", `{}`), nil
	})
	_, err := client.Devices().List(context.Background(), TypedPageParams{PageParams: PageParams{PageSize: 10, SortOrder: "sideways"}})
	var se *StructuredError
	if !errors.As(err, &se) || se.Code != ErrValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("calls = %d", calls.Load())
	}
}

func TestDevices_ListByCustomer(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/customer/c1/devices" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(w, `{"data":[],"totalPages":0,"totalElements":0,"hasNext":false}`)
	})
	if _, err := client.Devices().ListByCustomer(context.Background(), "c1", TypedPageParams{PageParams: DefaultPage(10)}); err != nil {
		t.Fatalf("ListByCustomer: %v", err)
	}
}

func TestDevices_GetNotFound(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":404,"message":"Requested item wasn't found!","errorCode":32}`))
	})
	_, err := client.Devices().Get(context.Background(), "missing")
	if !IsNotFoundError(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDevices_GetMany(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("deviceIds"); got != "a,b" {
			t.Errorf("deviceIds = %q", got)
		}
		writeJSON(w, `[{"name":"A"},{"name":"B"}]`)
	})
	devices, err := client.Devices().GetMany(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(devices) != 2 {
		t.Errorf("devices = %+v", devices)
	}
}

func TestSaveDevice(t *testing.T) {
	inv := &recordingInvoker{result: &Result{Kind: KindSuccess, Raw: []byte(`{"name":"pump","id":{"id":"d9","entityType":"DEVICE"}}`)}}
	out, err := saveDevice(context.Background(), inv, Device{Name: "pump"}, SaveDeviceOptions{AccessToken: "A1"})
	if err != nil {
		t.Fatalf("saveDevice: %v", err)
	}
	if inv.operation != "saveDevice" || inv.call.Params["accessToken"] != "A1" {
		t.Errorf("call = %s %+v", inv.operation, inv.call)
	}
	if _, ok := inv.call.Params["entityGroupId"]; ok {
		t.Error("empty entityGroupId should be omitted")
	}
	if out.ID == nil || out.ID.ID != "d9" {
		t.Errorf("out = %+v", out)
	}

	_, err = saveDevice(context.Background(), &recordingInvoker{}, Device{Name: "x"}, SaveDeviceOptions{EntityGroupID: "not-a-uuid"})
	if err == nil {
		t.Error("expected validation error for entityGroupId")
	}
}

func TestDevices_Types(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"tenantId":{"id":"t"},"entityType":"DEVICE","type":"default"},{"type":"gateway"}]`)
	})
	types, err := client.Devices().Types(context.Background())
	if err != nil {
		t.Fatalf("Types: %v", err)
	}
	if strings.Join(types, ",") != "default,gateway" {
		t.Errorf("types = %v", types)
	}
}

func TestSaveCustomer(t *testing.T) {
	inv := &recordingInvoker{result: &Result{Kind: KindSuccess, Raw: []byte(`{"title":"Acme"}`)}}
	if _, err := saveCustomer(context.Background(), inv, Customer{Title: "Acme"}, ""); err != nil {
		t.Fatalf("saveCustomer: %v", err)
	}
	if inv.call.Params != nil {
		t.Errorf("params = %v", inv.call.Params)
	}
	if c, ok := inv.call.Body.(Customer); !ok || c.Title != "Acme" {
		t.Errorf("body = %#v", inv.call.Body)
	}

	if _, err := saveCustomer(context.Background(), inv, Customer{Title: "Acme"}, "g1"); err != nil {
		t.Fatalf("saveCustomer: %v", err)
	}
	if inv.call.Params["entityGroupId"] != "g1" {
		t.Errorf("params = %v", inv.call.Params)
	}
}

func TestCustomers_FindByTitle(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tenant/customers" || r.URL.Query().Get("customerTitle") != "Acme Corp" {
			t.Errorf("unexpected %s", r.URL)
		}
		writeJSON(w, `{"title":"Acme Corp"}`)
	})
	c, err := client.Customers().FindByTitle(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("FindByTitle: %v", err)
	}
	if c.Title != "Acme Corp" {
		t.Errorf("Title = %s", c.Title)
	}
}

func TestAlarms_Actions(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantNil  bool
		wantPath string
		run      func(AlarmsService) (*Alarm, error)
	}{
		{"ack with body", `{"status":"ACTIVE_ACK","acknowledged":true}`, false, "/api/alarm/a1/ack", func(s AlarmsService) (*Alarm, error) { return s.Ack(context.Background(), "a1") }},
		{"clear empty", ``, true, "/api/alarm/a1/clear", func(s AlarmsService) (*Alarm, error) { return s.Clear(context.Background(), "a1") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := serve(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != tt.wantPath {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				if tt.body != "" {
					writeJSON(w, tt.body)
				}
			})
			alarm, err := tt.run(client.Alarms())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (alarm == nil) != tt.wantNil {
				t.Errorf("alarm = %+v", alarm)
			}
		})
	}
}

func TestAlarms_ListForEntity(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/alarm/DEVICE/d1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("searchStatus") != "ACTIVE" {
			t.Errorf("query = %v", r.URL.Query())
		}
		writeJSON(w, `{"data":[{"type":"High Temperature","severity":"CRITICAL","status":"ACTIVE_UNACK"}],"totalPages":1,"totalElements":1}`)
	})
	page, err := client.Alarms().ListForEntity(context.Background(), EntityID{ID: "d1", EntityType: EntityDevice},
		AlarmQueryParams{PageParams: DefaultPage(10), SearchStatus: "ACTIVE"})
	if err != nil {
		t.Fatalf("ListForEntity: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Severity != "CRITICAL" {
		t.Errorf("page = %+v", page)
	}
}

func TestAlarms_HighestSeverity(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `"MAJOR"`)
	})
	sev, err := client.Alarms().HighestSeverity(context.Background(), EntityID{ID: "d1", EntityType: EntityDevice})
	if err != nil {
		t.Fatalf("HighestSeverity: %v", err)
	}
	if sev != "MAJOR" {
		t.Errorf("severity = %q", sev)
	}
}

func TestTelemetry_Latest(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/plugins/telemetry/DEVICE/d1/values/timeseries" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("keys") != "temperature,humidity" || q.Get("useStrictDataTypes") != "true" {
			t.Errorf("query = %v", q)
		}
		writeJSON(w, `{"temperature":[{"ts":1700000000000,"value":21.5}],"humidity":[{"ts":1700000000000,"value":40}]}`)
	})
	latest, err := client.Telemetry().Latest(context.Background(), EntityID{ID: "d1", EntityType: EntityDevice}, []string{"temperature", "humidity"}, true)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(latest["temperature"]) != 1 || latest["temperature"][0].Value != 21.5 {
		t.Errorf("latest = %+v", latest)
	}
}

func TestTelemetry_History(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("startTs") != "0" || q.Get("endTs") != "1000" || q.Get("agg") != "AVG" || q.Get("interval") != "100" {
			t.Errorf("query = %v", q)
		}
		writeJSON(w, `{"t":[]}`)
	})
	_, err := client.Telemetry().History(context.Background(), EntityID{ID: "d1", EntityType: EntityDevice},
		TimeseriesParams{Keys: "t", StartTs: 0, EndTs: 1000, Interval: 100, Agg: "AVG"})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
}

func TestTelemetry_Attributes(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/plugins/telemetry/ASSET/a1/values/attributes/SERVER_SCOPE" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(w, `[{"key":"active","value":true,"lastUpdateTs":1}]`)
	})
	attrs, err := client.Telemetry().Attributes(context.Background(), EntityID{ID: "a1", EntityType: EntityAsset}, ScopeServer, nil)
	if err != nil {
		t.Fatalf("Attributes: %v", err)
	}
	if len(attrs) != 1 || attrs[0].Key != "active" {
		t.Errorf("attrs = %+v", attrs)
	}

	if _, err := client.Telemetry().Attributes(context.Background(), EntityID{ID: "a1", EntityType: EntityAsset}, "BOGUS", nil); err == nil {
		t.Error("expected scope validation error")
	}
}

func TestTelemetry_Save(t *testing.T) {
	var gotPath, gotBody string
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	})
	entity := EntityID{ID: "d1", EntityType: EntityDevice}

	if err := client.Telemetry().SaveTelemetry(context.Background(), entity, map[string]any{"temperature": 22}); err != nil {
		t.Fatalf("SaveTelemetry: %v", err)
	}
	if gotPath != "/api/plugins/telemetry/DEVICE/d1/timeseries/ANY" || gotBody != `{"temperature":22}` {
		t.Errorf("sent %s %s", gotPath, gotBody)
	}

	if err := client.Telemetry().SaveAttributes(context.Background(), entity, ScopeShared, map[string]any{"mode": "eco"}); err != nil {
		t.Fatalf("SaveAttributes: %v", err)
	}
	if gotPath != "/api/plugins/telemetry/DEVICE/d1/attributes/SHARED_SCOPE" {
		t.Errorf("path = %s", gotPath)
	}
}

func TestEntityGroups_ListByType(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/entityGroups/DEVICE" || r.URL.Query().Get("includeShared") != "true" {
			t.Errorf("unexpected %s", r.URL)
		}
		writeJSON(w, `[{"name":"All","type":"DEVICE","groupAll":true}]`)
	})
	groups, err := client.EntityGroups().ListByType(context.Background(), "device", true)
	if err != nil {
		t.Fatalf("ListByType: %v", err)
	}
	if len(groups) != 1 || !groups[0].GroupAll {
		t.Errorf("groups = %+v", groups)
	}

	if _, err := client.EntityGroups().ListByType(context.Background(), "widget", false); err == nil {
		t.Error("expected error for unknown group type")
	}
}

func TestImages_Upload(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		reader, err := r.MultipartReader()
		if err != nil {
			t.Fatalf("MultipartReader: %v", err)
		}
		part, err := reader.NextPart()
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		if part.FormName() != "file" || part.FileName() != "file.png" {
			t.Errorf("part = %s/%s", part.FormName(), part.FileName())
		}
		if ct := part.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("part Content-Type = %q", ct)
		}
		if _, err := reader.NextPart(); err != io.EOF {
			t.Errorf("expected a single part, got err %v", err)
		}
		writeJSON(w, `{"title":"logo","resourceKey":"file.png","link":"/api/images/tenant/file.png"}`)
	})

	info, err := client.Images().Upload(context.Background(), pngBytes, "logo", "")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if info.ResourceKey != "file.png" {
		t.Errorf("info = %+v", info)
	}
}

func TestImages_UploadAllFields(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("title") != "logo" {
			t.Errorf("title = %q", r.FormValue("title"))
		}
		files := r.MultipartForm.File["file"]
		if len(files) != 1 || files[0].Filename != "file.png" {
			t.Errorf("files = %v", files)
		}
		w.WriteHeader(http.StatusOK)
	})
	client.MultipartAllFields = true

	if _, err := client.Images().Upload(context.Background(), pngBytes, "logo", ""); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

func TestImages_Download(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "image/*" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	})
	data, err := client.Images().Download(context.Background(), "tenant", "logo.png")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if len(data) != len(pngBytes) {
		t.Errorf("len = %d", len(data))
	}
}

func TestRuleChains_SetRoot(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/ruleChain/rc1/root" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, `{"name":"Root Rule Chain","root":true}`)
	})
	rc, err := client.RuleChains().SetRoot(context.Background(), "rc1")
	if err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	if !rc.Root {
		t.Errorf("rc = %+v", rc)
	}
}

func TestDelete_NoContent(t *testing.T) {
	tests := []struct {
		name string
		path string
		run  func(*Client) error
	}{
		{"tenant", "/api/tenant/t1", func(c *Client) error { return c.Tenants().Delete(context.Background(), "t1") }},
		{"customer", "/api/customer/c1", func(c *Client) error { return c.Customers().Delete(context.Background(), "c1") }},
		{"device", "/api/device/d1", func(c *Client) error { return c.Devices().Delete(context.Background(), "d1") }},
		{"asset", "/api/asset/a1", func(c *Client) error { return c.Assets().Delete(context.Background(), "a1") }},
		{"dashboard", "/api/dashboard/db1", func(c *Client) error { return c.Dashboards().Delete(context.Background(), "db1") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := serve(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != tt.path {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(http.StatusOK)
			})
			if err := tt.run(client); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
