package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/config"
	"github.com/thingsboard/tb-cli/internal/resolve"
)

// errAlreadyHandled marks an error RunE has already printed, so Execute
// does not print it twice.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string   { return e.err.Error() }
func (e *handledError) Unwrap() []error { return []error{errAlreadyHandled, e.err} }
func (e *handledError) ExitCode() int   { return e.exitCode }

// RunE prints a failing command's error once, as JSON on stderr in
// structured modes and as HandleError text otherwise.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if !isStructured(cmd) {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
		} else if se := api.StructuredErrorFromError(err); se != nil {
			_ = printJSONErr(cmd, map[string]any{"error": se})
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

// diagnosis is what HandleError prints: a headline and optional hints.
type diagnosis struct {
	headline string
	hints    []string
	footer   string
}

func (d diagnosis) String() string {
	var b strings.Builder
	b.WriteString(d.headline)
	b.WriteString("\n")
	if len(d.hints) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, h := range d.hints {
			b.WriteString("  - " + h + "\n")
		}
	}
	if d.footer != "" {
		b.WriteString("\n" + d.footer + "\n")
	}
	return b.String()
}

var transportDiagnoses = []struct {
	phrase   string
	headline string
	hints    []string
}{
	{"connection refused", "Connection refused.", []string{"Check if the ThingsBoard server is running", "Verify the URL: tb auth status"}},
	{"no such host", "DNS resolution failed.", []string{"Check the server URL spelling", "Verify your DNS settings"}},
	{"certificate", "TLS certificate error.", []string{"Verify the server's SSL certificate", "Ensure you're using https:// correctly"}},
}

var apiHints = map[api.ErrorCode][]string{
	api.ErrTokenExpired: {"Your session expired", "Run: tb auth refresh (or tb auth login)"},
	api.ErrUnauthorized: {"Your token may be invalid", "Run: tb auth login"},
	api.ErrForbidden:    {"Your user lacks the permission for this action", "Check the role and group permissions in ThingsBoard"},
	api.ErrNotFound:     {"The entity doesn't exist or is not visible to you", "Check the id is correct"},
	api.ErrBadRequest:   {"Check your request parameters", "Use --debug to see the full request"},
	api.ErrValidation:   {"Check your request parameters", "Use --debug to see the full request"},
	api.ErrConflict:     {"The entity changed or already exists"},
	api.ErrRateLimited:  {"Too many requests for the tenant profile limits", "Wait and retry, or use --retry-attempts for reads"},
	api.ErrServerError:  {"Server error - not your fault", "Wait and retry"},
}

func diagnose(err error) diagnosis {
	var (
		apiErr    *api.APIError
		authErr   *api.AuthError
		missing   *api.MissingParameterError
		unknownOp *api.UnknownOperationError
		ambiguous *resolve.AmbiguousError
	)
	errLine := red("Error:") + " " + err.Error()

	switch {
	case errors.Is(err, config.ErrNotConfigured):
		return diagnosis{headline: errLine}
	case errors.As(err, &missing):
		return diagnosis{headline: errLine, hints: []string{
			"Pass it with --param " + missing.Name + "=<value>",
			"Run: tb ops --show <operation> to list its parameters",
		}}
	case errors.As(err, &unknownOp):
		return diagnosis{headline: errLine, hints: []string{"Run: tb ops to list available operations"}}
	case errors.As(err, &authErr):
		return diagnosis{
			headline: "Authentication failed: " + authErr.Reason,
			hints:    []string{"Run: tb auth login", "Run: tb auth refresh if the session expired"},
		}
	case errors.As(err, &apiErr):
		d := diagnosis{
			headline: fmt.Sprintf("%s API error (HTTP %d): %s", red("Error:"), apiErr.StatusCode, apiErr.Error()),
			hints:    apiHints[api.StructuredErrorFromAPIError(apiErr).Code],
		}
		if d.hints == nil {
			d.hints = []string{"Use --debug for more details"}
		}
		if apiErr.RequestID != "" {
			d.footer = "Request ID: " + apiErr.RequestID
		}
		return d
	case errors.As(err, &ambiguous):
		return diagnosis{headline: errLine, hints: []string{"Use the entity id instead of its name"}}
	}

	for _, t := range transportDiagnoses {
		if strings.Contains(err.Error(), t.phrase) {
			return diagnosis{headline: t.headline, hints: t.hints}
		}
	}
	return diagnosis{headline: errLine}
}

// HandleError renders err for a terminal, with suggestions where the
// failure has a known remedy.
func HandleError(err error) string {
	if err == nil {
		return ""
	}
	return diagnose(err).String()
}
