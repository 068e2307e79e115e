package cmd

import (
	"strings"

	"github.com/thingsboard/tb-cli/internal/resolve"
)

// suggestCommand finds the closest command name to the unknown input.
// Returns empty string if nothing is close.
func suggestCommand(unknown string, commands []string) string {
	if matches := resolve.Suggest(unknown, commands, 1); len(matches) > 0 {
		return matches[0]
	}
	return ""
}

// suggestFlag finds the closest flag name to the unknown input. Dashes are
// ignored for the comparison but kept in the result.
func suggestFlag(unknown string, flagNames []string) string {
	stripped := strings.TrimLeft(unknown, "-")
	if stripped == "" {
		return ""
	}
	bare := make([]string, len(flagNames))
	byBare := make(map[string]string, len(flagNames))
	for i, f := range flagNames {
		bare[i] = strings.TrimLeft(f, "-")
		byBare[strings.ToLower(bare[i])] = f
	}
	if matches := resolve.Suggest(stripped, bare, 1); len(matches) > 0 {
		return byBare[strings.ToLower(matches[0])]
	}
	return ""
}

// suggestOperations lists endpoint operations close to name.
func suggestOperations(name string, operations []string) []string {
	return resolve.Suggest(name, operations, 3)
}
