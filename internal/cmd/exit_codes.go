package cmd

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/config"
)

// Process exit codes. Scripts may rely on these values.
const (
	exitOK          = 0
	exitGeneric     = 1
	exitUsage       = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitForbidden   = 5
	exitRateLimited = 6
	exitServer      = 7
	exitNetwork     = 8
)

var exitByErrorCode = map[api.ErrorCode]int{
	api.ErrUnauthorized:     exitAuth,
	api.ErrTokenExpired:     exitAuth,
	api.ErrForbidden:        exitForbidden,
	api.ErrNotFound:         exitNotFound,
	api.ErrRateLimited:      exitRateLimited,
	api.ErrServerError:      exitServer,
	api.ErrTimeout:          exitNetwork,
	api.ErrNetwork:          exitNetwork,
	api.ErrBadRequest:       exitUsage,
	api.ErrValidation:       exitUsage,
	api.ErrConflict:         exitUsage,
	api.ErrMissingParameter: exitUsage,
	api.ErrUnknownOperation: exitUsage,
}

// usagePhrases are fragments of cobra, pflag and local argument errors.
var usagePhrases = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"flag needs an argument",
	"requires at least",
	"requires exactly",
	"accepts at most",
	"accepts between",
	"invalid argument",
	"invalid value",
	"must be",
	"is required",
	"conflicts with",
	"cannot be used together",
}

// networkPhrases catch transport failures that arrive wrapped as plain text.
var networkPhrases = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"certificate",
	"i/o timeout",
}

// ExitCode maps an error to a process exit code. Errors already printed
// by RunE carry their code; the rest are classified by type, then by the
// structured error taxonomy, then by message.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, pflag.ErrHelp):
		return exitOK
	}

	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != exitOK {
			return handled.exitCode
		}
		err = handled.err
	}

	switch {
	case errors.Is(err, config.ErrNotConfigured):
		return exitAuth
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return exitNetwork
	}
	if structured := api.StructuredErrorFromError(err); structured != nil {
		if code, ok := exitByErrorCode[structured.Code]; ok {
			return code
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, usagePhrases):
		return exitUsage
	case isTransportError(err), containsAny(msg, networkPhrases):
		return exitNetwork
	}
	return exitGeneric
}

func isTransportError(err error) bool {
	var netErr net.Error
	var urlErr *url.Error
	return errors.As(err, &netErr) || errors.As(err, &urlErr)
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
