package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/config"
	"github.com/thingsboard/tb-cli/internal/iocontext"
	"github.com/thingsboard/tb-cli/internal/validation"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage authentication credentials",
		Long:    "Log in to a ThingsBoard server and manage the JWTs stored in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthRefreshCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	cmd.AddCommand(newAuthUseCmd())
	return cmd
}

func profileName() string {
	if flags.Profile != "" {
		return flags.Profile
	}
	return "default"
}

func newAuthLoginCmd() *cobra.Command {
	var (
		username      string
		password      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with username and password",
		Long: strings.TrimSpace(`
Log in to a ThingsBoard server and save the JWT pair to your OS keychain.

The server comes from --base-url, TB_BASE_URL, or defaults to
http://localhost:8080. The password is read from stdin when
--password-stdin is set or --password is omitted.
`),
		Example: strings.TrimSpace(`
  tb auth login --base-url https://tb.example.com -u tenant@thingsboard.org
  echo "$TB_PASSWORD" | tb auth login -u tenant@thingsboard.org --password-stdin
  tb auth login --profile staging --base-url https://staging.example.com -u admin@example.com
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(username) == "" {
				return fmt.Errorf("--username is required")
			}
			if password == "" || passwordStdin {
				ioStreams := iocontext.GetIO(cmd.Context())
				if !passwordStdin && !isStructured(cmd) {
					_, _ = fmt.Fprint(ioStreams.ErrOut, "Password: ")
				}
				line, err := bufio.NewReader(ioStreams.In).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			client, err := newClientFactory().anonymous("")
			if err != nil {
				return err
			}
			if err := validation.ValidateBaseURL(client.BaseURL); err != nil {
				return fmt.Errorf("invalid URL: %w", err)
			}
			client.SkipURLValidation()

			ctx := cmdContext(cmd)
			tokens, err := client.Auth().Login(ctx, username, password)
			if err != nil {
				return err
			}

			profile := config.Profile{
				BaseURL:      client.BaseURL,
				Username:     username,
				Token:        tokens.Token,
				RefreshToken: tokens.RefreshToken,
			}
			client.Token = tokens.Token
			if user, err := client.Auth().CurrentUser(ctx); err == nil {
				profile.UserID = user.ID.ID
				profile.Authority = user.Authority
				if user.TenantID != nil {
					profile.TenantID = user.TenantID.ID
				}
			} else {
				slog.Warn("could not load the current user", "error", err)
			}

			name := profileName()
			if err := config.SaveProfile(name, profile); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{
					"profile":   name,
					"base_url":  profile.BaseURL,
					"username":  profile.Username,
					"authority": profile.Authority,
				})
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, green("Logged in")+" as "+username)
			_, _ = fmt.Fprintf(out, "  Server: %s\n", profile.BaseURL)
			if profile.Authority != "" {
				_, _ = fmt.Fprintf(out, "  Authority: %s\n", profile.Authority)
			}
			if name != "default" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", name)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "User email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prefer --password-stdin)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	flagAlias(cmd.Flags(), "username", "email")
	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active credentials",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile, source, err := config.LoadActive()
			if err != nil {
				return err
			}

			status := map[string]any{
				"profile":   source,
				"base_url":  profile.BaseURL,
				"username":  profile.Username,
				"authority": profile.Authority,
				"tenant_id": profile.TenantID,
			}
			if check {
				client, err := getClient()
				if err != nil {
					return err
				}
				user, err := client.Auth().CurrentUser(cmdContext(cmd))
				if err != nil {
					return err
				}
				status["valid"] = true
				status["username"] = user.Email
				status["authority"] = user.Authority
			}

			f := newFormatter(cmd)
			if f.Structured() {
				return f.Output(status)
			}
			pairs := []string{
				"Profile", source,
				"Server", profile.BaseURL,
				"User", fmt.Sprint(status["username"]),
				"Authority", fmt.Sprint(status["authority"]),
			}
			if check {
				pairs = append(pairs, "Token", green("valid"))
			}
			return f.KeyValues(pairs...)
		}),
	}
	cmd.Flags().BoolVar(&check, "check", false, "Verify the token against the server")
	return cmd
}

func newAuthRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new JWT",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile, source, err := config.LoadActive()
			if err != nil {
				return err
			}
			if source == "env" {
				return fmt.Errorf("credentials come from TB_BASE_URL/TB_TOKEN; refresh is only available for stored profiles")
			}
			if profile.RefreshToken == "" {
				return &api.AuthError{Reason: "no refresh token stored, run 'tb auth login'"}
			}

			client, err := newClientFactory().anonymous(profile.BaseURL)
			if err != nil {
				return err
			}
			tokens, err := client.Auth().Refresh(cmdContext(cmd), profile.RefreshToken)
			if err != nil {
				return err
			}
			if err := config.UpdateTokens(source, tokens.Token, tokens.RefreshToken); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}
			printAction(cmd, "Refreshed", "token for profile", source, "")
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"profile": source, "refreshed": true})
			}
			return nil
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile, source, err := config.LoadActive()
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					printAction(cmd, "Already", "logged out", "", "")
					return nil
				}
				return err
			}
			if source == "env" {
				return fmt.Errorf("credentials come from TB_BASE_URL/TB_TOKEN; unset them to log out")
			}

			if client, err := newClientFactory().newClient(config.ClientConfig{BaseURL: profile.BaseURL, Token: profile.Token}); err == nil {
				if err := client.Auth().Logout(cmdContext(cmd)); err != nil {
					slog.Debug("server logout failed", "error", err)
				}
			}
			if err := config.DeleteProfile(source); err != nil {
				return err
			}
			printAction(cmd, "Logged out", "profile", source, "")
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"profile": source, "logged_out": true})
			}
			return nil
		}),
	}
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"ls"},
		Short:   "List stored profiles",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			names, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, _ := config.CurrentProfile()
			type row struct {
				Name    string `json:"name"`
				Current bool   `json:"current"`
			}
			rows := make([]row, 0, len(names))
			for _, n := range names {
				rows = append(rows, row{Name: n, Current: n == current})
			}
			return renderList(cmd, rows, table[row]{
				headers: []string{"PROFILE", "CURRENT"},
				row:     func(r row) []string { return []string{r.Name, boolMark(r.Current)} },
				empty:   "No profiles stored. Run 'tb auth login'.",
			})
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadProfile(args[0]); err != nil {
				return err
			}
			if err := config.SetCurrentProfile(args[0]); err != nil {
				return err
			}
			printAction(cmd, "Switched", "to profile", args[0], "")
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"profile": args[0], "current": true})
			}
			return nil
		}),
	}
}
