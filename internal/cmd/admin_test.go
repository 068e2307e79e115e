package cmd

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestAdminSettings_Show(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/admin/settings/general", jsonResponse(200, `{
			"key": "general",
			"jsonValue": {"baseUrl": "https://tb.example.com", "prohibitDifferentUrl": false}
		}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"admin", "settings", "general"}))
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "https://tb.example.com")
	assert.Contains(t, lines[1], "false")
}

func TestAdminSettings_SaveKeepsID(t *testing.T) {
	const settingsID = "6d2f0a80-42b6-435a-983c-b7beff2784f9"
	var body []byte
	handler := newRouteHandler().
		On("GET", "/api/admin/settings/mail", jsonResponse(200, `{
			"id": {"id": "`+settingsID+`", "entityType": "ADMIN_SETTINGS"},
			"key": "mail", "jsonValue": {"smtpHost": "old"}
		}`)).
		On("POST", "/api/admin/settings", func(w http.ResponseWriter, r *http.Request) {
			body, _ = io.ReadAll(r.Body)
			jsonResponse(200, string(body))(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"admin", "settings", "mail", "-d", `{"smtpHost": "smtp.example.com"}`})
		require.NoError(t, err)
	})

	assert.Equal(t, settingsID, gjson.GetBytes(body, "id.id").String())
	assert.Equal(t, "smtp.example.com", gjson.GetBytes(body, "jsonValue.smtpHost").String())
	assert.Contains(t, output, "Saved settings mail")
}

func TestAdminUpdates(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/admin/updates", jsonResponse(200, `{"updateAvailable": false}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"admin", "updates"}))
	})
	assert.Equal(t, "Platform is up to date.\n", output)
}

func TestAdminInfo(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/admin/systemInfo", jsonResponse(200, `{"monolith": true}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"admin", "info"}))
	})
	assert.True(t, gjson.Get(output, "monolith").Bool())
}
