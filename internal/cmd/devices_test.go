package cmd

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const (
	boilerID = "1e3fa4f0-42b6-435a-983c-b7beff2784f9"
	pumpID   = "2b5c8d10-42b6-435a-983c-b7beff2784f9"
)

const devicesPage = `{
	"data": [
		{"id": {"id": "` + boilerID + `", "entityType": "DEVICE"}, "name": "Boiler 7", "type": "boiler", "label": "Basement", "createdTime": 1700000000000},
		{"id": {"id": "` + pumpID + `", "entityType": "DEVICE"}, "name": "Pump", "type": "default", "createdTime": 1700000000000}
	],
	"totalPages": 1,
	"totalElements": 2,
	"hasNext": false
}`

func TestDevicesList(t *testing.T) {
	var gotQuery map[string][]string
	handler := newRouteHandler().
		On("GET", "/api/tenant/devices", func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			jsonResponse(200, devicesPage)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "list", "--type", "boiler", "--limit", "5"}))
	})

	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "Boiler 7")
	assert.Contains(t, output, "Basement")
	assert.Contains(t, output, "2023-11-14T22:13:20Z")
	assert.Equal(t, []string{"5"}, gotQuery["pageSize"])
	assert.Equal(t, []string{"0"}, gotQuery["page"])
	assert.Equal(t, []string{"boiler"}, gotQuery["type"])
}

func TestDevicesList_Empty(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/tenant/devices", jsonResponse(200, `{"data": [], "hasNext": false}`))
	setupTestEnvWithHandler(t, handler)

	stderr := captureStderr(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "list"}))
	})
	assert.Contains(t, stderr, "No devices found.")
}

func TestDevicesList_AllPages(t *testing.T) {
	var calls atomic.Int32
	handler := newRouteHandler().
		On("GET", "/api/tenant/devices", func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.URL.Query().Get("page") == "0" {
				jsonResponse(200, `{"data": [{"name": "a"}], "totalElements": 2, "hasNext": true}`)(w, r)
				return
			}
			jsonResponse(200, `{"data": [{"name": "b"}], "totalElements": 2, "hasNext": false}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "list", "--all", "--json"}))
	})

	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, []any{"a", "b"}, gjson.Get(output, "data.#.name").Value())
	assert.False(t, gjson.Get(output, "hasNext").Bool())
}

func TestDevicesList_Query(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/tenant/devices", jsonResponse(200, devicesPage))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "list", "-q", ".data[].name"}))
	})
	assert.Contains(t, output, `"Boiler 7"`)
	assert.Contains(t, output, `"Pump"`)
}

func TestDevicesGet_ByName(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/tenant/devices", jsonResponse(200, devicesPage)).
		On("GET", "/api/device/"+boilerID, jsonResponse(200, `{
			"id": {"id": "`+boilerID+`", "entityType": "DEVICE"},
			"name": "Boiler 7", "type": "boiler",
			"customerId": {"id": "13814000-1dd2-11b2-8080-808080808080", "entityType": "CUSTOMER"}
		}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "get", "boiler 7"}))
	})

	assert.Contains(t, output, boilerID)
	assert.Contains(t, output, "Boiler 7")
	assert.NotContains(t, output, "13814000", "unassigned customer is hidden")
}

func TestDevicesGet_NameCached(t *testing.T) {
	var listCalls atomic.Int32
	handler := newRouteHandler().
		On("GET", "/api/tenant/devices", func(w http.ResponseWriter, r *http.Request) {
			listCalls.Add(1)
			jsonResponse(200, devicesPage)(w, r)
		}).
		On("GET", "/api/device/"+pumpID, jsonResponse(200, `{"name": "Pump"}`))
	setupTestEnvWithHandler(t, handler)
	t.Setenv("TB_NO_CACHE", "")

	for i := 0; i < 2; i++ {
		_ = captureStdout(t, func() {
			require.NoError(t, Execute(context.Background(), []string{"devices", "get", "Pump"}))
		})
	}
	assert.EqualValues(t, 1, listCalls.Load())
}

func TestDevicesCreate(t *testing.T) {
	var body []byte
	var query map[string][]string
	handler := newRouteHandler().
		On("POST", "/api/device", func(w http.ResponseWriter, r *http.Request) {
			body, _ = io.ReadAll(r.Body)
			query = r.URL.Query()
			jsonResponse(200, `{"id": {"id": "`+pumpID+`", "entityType": "DEVICE"}, "name": "Pump"}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"devices", "create", "--name", " Pump ", "--label", "Line 2",
			"--access-token", "A1_TEST", "--info", `{"gateway": true}`,
		})
		require.NoError(t, err)
	})

	assert.Equal(t, "Pump", gjson.GetBytes(body, "name").String())
	assert.Equal(t, "default", gjson.GetBytes(body, "type").String())
	assert.Equal(t, "Line 2", gjson.GetBytes(body, "label").String())
	assert.True(t, gjson.GetBytes(body, "additionalInfo.gateway").Bool())
	assert.Equal(t, []string{"A1_TEST"}, query["accessToken"])
	assert.NotContains(t, query, "entityGroupId")
	assert.Contains(t, output, "Created device "+pumpID)
}

func TestDevicesCreate_InvalidInfo(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"devices", "create", "--name", "x", "--info", "[1,2]"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--info")
	assert.Zero(t, handler.hits.Load())
}

func TestDevicesDelete_Single(t *testing.T) {
	var deleted atomic.Int32
	handler := newRouteHandler().
		On("DELETE", "/api/device/"+boilerID, func(w http.ResponseWriter, _ *http.Request) {
			deleted.Add(1)
			w.WriteHeader(http.StatusOK)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "delete", boilerID, "--yes"}))
	})
	assert.EqualValues(t, 1, deleted.Load())
	assert.Contains(t, output, "Deleted device "+boilerID)
}

func TestDevicesDelete_Cancelled(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)
	withStdin(t, "n\n")

	stderr := captureStderr(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "delete", boilerID}))
	})
	assert.Contains(t, stderr, "Cancelled.")
	assert.Zero(t, handler.hits.Load())
}

func TestDevicesDelete_StructuredNeedsYes(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"devices", "delete", boilerID, "--json"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestDevicesDelete_BulkPartialFailure(t *testing.T) {
	handler := newRouteHandler().
		On("DELETE", "/api/device/"+boilerID, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}).
		On("DELETE", "/api/device/"+pumpID, jsonResponse(403, `{"status": 403, "message": "You don't have permission", "errorCode": 20}`))
	setupTestEnvWithHandler(t, handler)

	var err error
	output := captureStdout(t, func() {
		err = Execute(context.Background(), []string{"devices", "delete", boilerID, pumpID, "--yes", "--json"})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 device operations failed")
	assert.EqualValues(t, 1, gjson.Get(output, "succeeded").Int())
	assert.EqualValues(t, 1, gjson.Get(output, "failed").Int())
	assert.Equal(t, boilerID, gjson.Get(output, "results.0.id").String())
	assert.True(t, gjson.Get(output, "results.0.success").Bool())
	assert.False(t, gjson.Get(output, "results.1.success").Bool())
}

func TestDevicesDelete_DryRun(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "delete", boilerID, pumpID, "--dry-run"}))
	})

	assert.Contains(t, output, "[DRY-RUN] Would send deleteDevice: DELETE")
	assert.Contains(t, output, "/api/device/"+boilerID)
	assert.Contains(t, output, "... and 1 more device(s)")
	assert.Zero(t, handler.hits.Load())
}

func TestDevicesTypes(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/device/types", jsonResponse(200, `[{"type": "boiler"}, {"type": "default"}]`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "types", "--json"}))
	})
	assert.JSONEq(t, `["boiler", "default"]`, output)
}

func TestDevicesGet_ByURL(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/device/"+pumpID, jsonResponse(200, `{"id": {"id": "`+pumpID+`", "entityType": "DEVICE"}, "name": "Pump"}`))
	env := setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "get", env.server.URL + "/entities/devices/" + pumpID}))
	})
	assert.Contains(t, output, "Pump")
	assert.EqualValues(t, 1, handler.hits.Load())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"devices", "get", env.server.URL + "/dashboards/" + pumpID})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a DEVICE")
}
