package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thingsboard/tb-cli/internal/filter"
)

func TestCallWith_SkipsEmptyStrings(t *testing.T) {
	call := callWith("deviceId", "abc", "entityGroupId", "", "limit", 0, "flag", false)
	assert.Equal(t, map[string]any{"deviceId": "abc", "limit": 0, "flag": false}, call.Params)
}

func TestParseKeyValue(t *testing.T) {
	k, v, err := parseKeyValue("additionalInfo.description=a=b")
	require.NoError(t, err)
	assert.Equal(t, "additionalInfo.description", k)
	assert.Equal(t, "a=b", v)

	k, v, err = parseKeyValue("empty=")
	require.NoError(t, err)
	assert.Equal(t, "empty", k)
	assert.Empty(t, v)

	for _, bad := range []string{"novalue", "=x", " =x"} {
		_, _, err := parseKeyValue(bad)
		assert.Error(t, err, bad)
	}
}

func TestSplitCommaList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCommaList(" a, ,b ,"))
	assert.Nil(t, splitCommaList(" , "))
}

func TestBuildFieldsQuery(t *testing.T) {
	query := buildFieldsQuery([]string{"name", "id.id"})

	page := map[string]any{
		"data": []any{
			map[string]any{"name": "Boiler", "id": map[string]any{"id": "1"}, "type": "boiler"},
		},
		"hasNext": false,
	}
	got, err := filter.Apply(page, query)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"name": "Boiler", "id.id": "1"}}, got)

	got, err = filter.Apply(map[string]any{"name": "Pump", "label": "x"}, query)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Pump", "id.id": nil}, got)
}

func TestFlagAlias_MarksCanonicalChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	var title string
	cmd.Flags().StringVar(&title, "title", "", "")
	flagAlias(cmd.Flags(), "title", "name")

	require.NoError(t, cmd.Flags().Parse([]string{"--name", "Acme"}))
	assert.Equal(t, "Acme", title)
	assert.True(t, cmd.Flags().Changed("title"))
	assert.True(t, flagOrAliasChanged(cmd, "title"))
	assert.True(t, cmd.Flags().Lookup("name").Hidden)
}

func TestFlagAlias_SliceValue(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var values []string
	cmd.Flags().StringSliceVar(&values, "keys", nil, "")
	flagAlias(cmd.Flags(), "keys", "k2")

	require.NoError(t, cmd.Flags().Parse([]string{"--k2", "a,b", "--keys", "c"}))
	assert.Equal(t, []string{"a", "b", "c"}, values)
}

func TestFlagAlias_UnknownPanics(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	assert.Panics(t, func() { flagAlias(cmd.Flags(), "missing", "m") })
}

func TestLoadTemplate(t *testing.T) {
	got, err := loadTemplate("{{.name}}")
	require.NoError(t, err)
	assert.Equal(t, "{{.name}}", got)

	_, err = loadTemplate("@/does/not/exist.tmpl")
	assert.Error(t, err)
}
