package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	BaseURL      string
	Token        string
	RefreshToken string
	// Profile is the keyring profile the settings came from, "env" when
	// they came from TB_BASE_URL/TB_TOKEN, empty when nothing was stored.
	Profile string
}

// ResolveClientConfig merges the active profile with environment and flag
// overrides. requireToken rejects configurations without a JWT.
func ResolveClientConfig(baseURLOverride, tokenOverride string, requireToken bool) (ClientConfig, error) {
	var cfg ClientConfig

	profile, name, err := LoadActive()
	switch {
	case err == nil:
		cfg = ClientConfig{
			BaseURL:      profile.BaseURL,
			Token:        profile.Token,
			RefreshToken: profile.RefreshToken,
			Profile:      name,
		}
	case errors.Is(err, ErrNotConfigured):
	default:
		if requireToken {
			return ClientConfig{}, err
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(os.Getenv(envBaseURL)), "/")
	}
	if token := strings.TrimSpace(os.Getenv(envToken)); token != "" && cfg.Token == "" {
		cfg.Token = token
	}
	if baseURLOverride != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURLOverride, "/")
	}
	if tokenOverride != "" {
		cfg.Token = tokenOverride
	}

	if requireToken && cfg.Token == "" {
		if errors.Is(err, ErrNotConfigured) {
			return ClientConfig{}, ErrNotConfigured
		}
		return ClientConfig{}, fmt.Errorf("token not configured (set %s, pass --token or run 'tb auth login')", envToken)
	}
	return cfg, nil
}
