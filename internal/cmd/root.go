package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/config"
	"github.com/thingsboard/tb-cli/internal/debug"
	"github.com/thingsboard/tb-cli/internal/dryrun"
	"github.com/thingsboard/tb-cli/internal/iocontext"
	"github.com/thingsboard/tb-cli/internal/outfmt"
	"github.com/thingsboard/tb-cli/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output        string
	JSON          bool
	Query         string
	JQ            string
	Fields        string
	Template      string
	Compact       bool
	Color         string
	Debug         bool
	DryRun        bool
	Quiet         bool
	Yes           bool
	AllowPrivate  bool
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
	BaseURL       string
	Token         string
	Profile       string

	MultipartAllFields bool
}

// flags holds the global command flags. It is reset at the start of every
// Execute call; code reading it outside a RunE sees the previous run.
var flags = defaultFlags()

// noColorDefault is fatih/color's own terminal detection, restored for
// --color=auto since Execute may run several times in one process.
var noColorDefault = color.NoColor

func defaultFlags() rootFlags {
	retry := api.DefaultRetryPolicy()
	return rootFlags{
		Output:        defaultOutput(),
		Color:         "auto",
		AllowPrivate:  validation.AllowPrivateEnabled(),
		Timeout:       api.DefaultTimeout,
		RetryAttempts: retry.Attempts,
		RetryDelay:    retry.Delay,

		MultipartAllFields: envBool("TB_MULTIPART_ALL_FIELDS"),
	}
}

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv("TB_OUTPUT")); value != "" {
		return value
	}
	return "text"
}

func envBool(name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(name)))
	return err == nil && v
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Values already exported win over the env file.
	if err := config.LoadEnvFile(config.EnvFile()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	flags = defaultFlags()

	root := &cobra.Command{
		Use:                "tb",
		Short:              "CLI for the ThingsBoard Professional Edition REST API",
		Long:               rootLong,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flags.JSON {
				if flagOrAliasChanged(cmd, "output") && !strings.EqualFold(flags.Output, "json") {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			needsStructured := flags.Query != "" || flags.JQ != "" || flags.Fields != ""
			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			if needsStructured && mode == outfmt.Text {
				if flagOrAliasChanged(cmd, "output") {
					return fmt.Errorf("--query/--jq/--fields require --output json, jsonl or yaml (or --json)")
				}
				mode = outfmt.JSON
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)

			switch flags.Color {
			case "always":
				color.NoColor = false
			case "never":
				color.NoColor = true
			case "auto":
				color.NoColor = noColorDefault
			default:
				return api.NewValidationError("--color", flags.Color, []string{"auto", "always", "never"})
			}

			ioStreams := iocontext.DefaultIO()
			if flags.Quiet {
				ioStreams.ErrOut = io.Discard
				if mode == outfmt.Text {
					ioStreams.Out = io.Discard
				}
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			if flagOrAliasChanged(cmd, "allow-private") {
				validation.SetAllowPrivate(flags.AllowPrivate)
			}

			debug.SetupLogger(flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			jqQuery := getJQQuery()
			if flags.Fields != "" {
				if jqQuery != "" {
					return fmt.Errorf("--fields and --query/--jq cannot be used together")
				}
				fields := splitCommaList(flags.Fields)
				if len(fields) == 0 {
					return fmt.Errorf("--fields must include at least one field")
				}
				jqQuery = buildFieldsQuery(fields)
			}
			if jqQuery != "" {
				ctx = outfmt.WithQuery(ctx, jqQuery)
			}

			if flags.Template != "" {
				tmpl, err := loadTemplate(flags.Template)
				if err != nil {
					return err
				}
				ctx = outfmt.WithTemplate(ctx, tmpl)
			}

			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}
			if flags.RetryDelay < 0 {
				return fmt.Errorf("--retry-delay must be >= 0")
			}
			if flags.Profile != "" {
				if err := os.Setenv("TB_PROFILE", flags.Profile); err != nil {
					return err
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|yaml (env TB_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter structured output")
	pf.StringVar(&flags.JQ, "jq", "", "Alias for --query")
	pf.StringVar(&flags.Fields, "fields", "", "Comma separated fields to keep in structured output (shorthand for --query)")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) to render output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.StringVar(&flags.Color, "color", flags.Color, "Color output: auto|always|never")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview mutating requests without sending them")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	pf.BoolVarP(&flags.Yes, "yes", "y", false, "Skip confirmation prompts")
	pf.BoolVar(&flags.AllowPrivate, "allow-private", flags.AllowPrivate, "Allow private and localhost server URLs (env TB_ALLOW_PRIVATE)")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g. 30s, 2m; 0 disables)")
	pf.UintVar(&flags.RetryAttempts, "retry-attempts", flags.RetryAttempts, "Total tries for GET requests (0 or 1 disables retry; env TB_RETRY_ATTEMPTS)")
	pf.DurationVar(&flags.RetryDelay, "retry-delay", flags.RetryDelay, "Initial delay between GET retries (env TB_RETRY_DELAY)")
	pf.StringVar(&flags.BaseURL, "base-url", "", "ThingsBoard server URL (overrides the profile and TB_BASE_URL)")
	pf.StringVar(&flags.Token, "token", "", "JWT to use (overrides the profile and TB_TOKEN)")
	pf.StringVar(&flags.Profile, "profile", "", "Credential profile to use (env TB_PROFILE)")
	pf.BoolVar(&flags.MultipartAllFields, "multipart-all-fields", flags.MultipartAllFields,
		"Send every form field as a multipart part; by default only the first field is sent (env TB_MULTIPART_ALL_FIELDS)")

	flagAlias(pf, "output", "out")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "template", "tpl")
	flagAlias(pf, "timeout", "to")
	flagAlias(pf, "base-url", "url")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newAPICmd())
	root.AddCommand(newCallCmd())
	root.AddCommand(newOpsCmd())
	root.AddCommand(newTenantsCmd())
	root.AddCommand(newCustomersCmd())
	root.AddCommand(newDevicesCmd())
	root.AddCommand(newAssetsCmd())
	root.AddCommand(newAlarmsCmd())
	root.AddCommand(newDashboardsCmd())
	root.AddCommand(newUsersCmd())
	root.AddCommand(newTelemetryCmd())
	root.AddCommand(newEntityGroupsCmd())
	root.AddCommand(newImagesCmd())
	root.AddCommand(newRuleChainsCmd())
	root.AddCommand(newAdminCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

const rootLong = `tb talks to a ThingsBoard Professional Edition server.

Log in once with 'tb auth login', then use the resource commands
(devices, assets, alarms, telemetry, ...), 'tb call <operation>' for any
operation of the endpoint table, or 'tb api <path>' for raw requests.

Structured output (--output json|jsonl|yaml) can be filtered with --query
or rendered with --template.`

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		parent := root
		if targetCmd != nil {
			parent = targetCmd
		}
		if unknown := extractQuoted(msg); unknown != "" {
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		unknown := extractFlag(msg)
		if unknown == "" {
			return msg
		}
		seen := make(map[string]bool)
		var flagNames []string
		addFlags := func(fs *pflag.FlagSet) {
			fs.VisitAll(func(f *pflag.Flag) {
				if f.Hidden && len(f.Annotations[aliasOfAnnotation]) == 0 {
					return
				}
				if name := "--" + f.Name; !seen[name] {
					seen[name] = true
					flagNames = append(flagNames, name)
				}
			})
		}
		helpCmd := "tb --help"
		if targetCmd != nil {
			addFlags(targetCmd.Flags())
			addFlags(targetCmd.InheritedFlags())
			helpCmd = targetCmd.CommandPath() + " --help"
		} else {
			addFlags(root.PersistentFlags())
		}
		if suggestion := suggestFlag(unknown, flagNames); suggestion != "" {
			return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
		}
		return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
	}

	return msg
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		// "unknown shorthand flag: 'a' in -a"
		idx = strings.LastIndex(s, " -")
		if idx < 0 {
			return ""
		}
		idx++
	}
	rest := s[idx:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimRight(rest, ".,;:!?\"'")
	if len(rest) < 2 {
		return ""
	}
	return rest
}

func buildFieldsQuery(fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", jqKey(field), jqPath(field)))
	}
	obj := "{" + strings.Join(parts, ", ") + "}"
	return fmt.Sprintf(`if type=="array" then map(%[1]s) elif type=="object" and has("data") and has("hasNext") then .data | map(%[1]s) else %[1]s end`, obj)
}

func jqKey(key string) string {
	return fmt.Sprintf("%q", key)
}

func jqPath(path string) string {
	var expr strings.Builder
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		_, _ = fmt.Fprintf(&expr, "[%q]", seg)
	}
	if expr.Len() == 0 {
		return "."
	}
	return "." + expr.String()
}

func loadTemplate(value string) (string, error) {
	if path, ok := strings.CutPrefix(value, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}
