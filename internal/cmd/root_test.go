package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestRootFlagValidation(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"json conflicts with output", []string{"devices", "list", "--json", "-o", "yaml"}, "--json conflicts with --output yaml"},
		{"query needs structured output", []string{"devices", "list", "-o", "text", "-q", ".data"}, "require --output json"},
		{"fields with query", []string{"devices", "list", "--fields", "name", "-q", ".data"}, "cannot be used together"},
		{"empty fields", []string{"devices", "list", "--fields", " , "}, "at least one field"},
		{"bad color", []string{"devices", "list", "--color", "rainbow"}, "--color"},
		{"bad output", []string{"devices", "list", "-o", "xml"}, "xml"},
		{"negative timeout", []string{"devices", "list", "--timeout", "-1s"}, "--timeout must be >= 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newRouteHandler()
			setupTestEnvWithHandler(t, handler)

			var err error
			_ = captureStderr(t, func() {
				err = Execute(context.Background(), tc.args)
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Zero(t, handler.hits.Load())
		})
	}
}

func TestRootFields(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/tenant/devices", jsonResponse(200, devicesPage))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "list", "--fields", "name,type"}))
	})

	assert.Equal(t, "Boiler 7", gjson.Get(output, "0.name").String())
	assert.Equal(t, "default", gjson.Get(output, "1.type").String())
	assert.False(t, gjson.Get(output, "0.label").Exists())
}

func TestRootUnknownCommandSuggests(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"devcies"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, `Did you mean "devices"?`)
}

func TestRootUnknownFlagSuggests(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"devices", "list", "--limt", "5"})
	})
	require.Error(t, err)
	assert.Contains(t, stderr, `Did you mean "--limit"?`)
	assert.Contains(t, stderr, "tb devices list --help")
}

func TestRootQuietSuppressesText(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/tenant/devices", jsonResponse(200, devicesPage))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"devices", "list", "-Q"}))
	})
	assert.Empty(t, output)
	assert.EqualValues(t, 1, handler.hits.Load())
}

func TestRootTemplate(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/tenant/devices", jsonResponse(200, devicesPage))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"devices", "list", "--template", `{{range .data}}{{.name}};{{end}}`,
		})
		require.NoError(t, err)
	})
	assert.Contains(t, output, "Boiler 7;Pump;")
}

func TestExtractQuoted(t *testing.T) {
	assert.Equal(t, "devcies", extractQuoted(`unknown command "devcies" for "tb"`))
	assert.Equal(t, "", extractQuoted("no quotes"))
	assert.Equal(t, "", extractQuoted(`dangling "quote`))
}
