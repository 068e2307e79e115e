package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/config"
)

type clientFactory struct {
	timeout   time.Duration
	retry     api.RetryPolicy
	userAgent string
	baseURL   string
	token     string
	allParts  bool
}

func newClientFactory() *clientFactory {
	retry := api.DefaultRetryPolicy()
	retry.Attempts = flags.RetryAttempts
	retry.Delay = flags.RetryDelay
	return &clientFactory{
		timeout:   flags.Timeout,
		retry:     retry,
		userAgent: fmt.Sprintf("tb-cli/%s", version),
		baseURL:   flags.BaseURL,
		token:     flags.Token,
		allParts:  flags.MultipartAllFields,
	}
}

// authenticated returns a client carrying a JWT.
func (f *clientFactory) authenticated() (*api.Client, error) {
	cfg, err := config.ResolveClientConfig(f.baseURL, f.token, true)
	if err != nil {
		return nil, err
	}
	return f.newClient(cfg)
}

// anonymous returns a client for login, where no JWT exists yet.
func (f *clientFactory) anonymous(baseURL string) (*api.Client, error) {
	if baseURL == "" {
		baseURL = f.baseURL
	}
	cfg, err := config.ResolveClientConfig(baseURL, "", false)
	if err != nil {
		return nil, err
	}
	cfg.Token = ""
	return f.newClient(cfg)
}

func (f *clientFactory) newClient(cfg config.ClientConfig) (*api.Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		slog.Debug("no server configured, using default", "base_url", api.DefaultDomain)
		baseURL = api.DefaultDomain
	}
	client, err := api.New(baseURL, cfg.Token)
	if err != nil {
		return nil, err
	}
	client.SetTimeout(f.timeout)
	client.Retry = f.retry
	client.MultipartAllFields = f.allParts
	if f.userAgent != "" {
		client.UserAgent = f.userAgent
	}
	return client, nil
}
