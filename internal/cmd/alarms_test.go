package cmd

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const alarmID = "4c0e1f70-42b6-435a-983c-b7beff2784f9"

func TestAlarmsList_ForEntity(t *testing.T) {
	var gotQuery map[string][]string
	handler := newRouteHandler().
		On("GET", "/api/alarm/DEVICE/"+boilerID, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			jsonResponse(200, `{"data": [{
				"id": {"id": "`+alarmID+`", "entityType": "ALARM"},
				"type": "High Temperature", "severity": "CRITICAL", "status": "ACTIVE_UNACK",
				"originatorName": "Boiler 7", "startTs": 1700000000000
			}], "hasNext": false}`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"alarms", "list", "--entity", boilerID, "--search-status", "active",
		})
		require.NoError(t, err)
	})

	assert.Equal(t, []string{"ACTIVE"}, gotQuery["searchStatus"])
	assert.Equal(t, []string{"true"}, gotQuery["fetchOriginator"])
	assert.Contains(t, output, "High Temperature")
	assert.Contains(t, output, "Boiler 7")
}

func TestAlarmsAck(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/alarm/"+alarmID+"/ack", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"alarms", "ack", alarmID}))
	})
	assert.Contains(t, output, "Acknowledged alarm "+alarmID)
}

func TestAlarmsClear_DryRun(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"alarms", "clear", alarmID, "--dry-run"}))
	})
	assert.Contains(t, output, "[DRY-RUN] Would send clearAlarm: POST")
	assert.Zero(t, handler.hits.Load())
}

func TestAlarmsSeverity(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/alarm/highestSeverity/DEVICE/"+boilerID, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("MAJOR"))
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"alarms", "severity", boilerID, "--json"}))
	})
	assert.Equal(t, "MAJOR", gjson.Get(output, "severity").String())
	assert.Equal(t, "DEVICE", gjson.Get(output, "entity.entityType").String())
}
