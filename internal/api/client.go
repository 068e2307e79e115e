package api

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/thingsboard/tb-cli/internal/validation"
)

const (
	// DefaultDomain is used by NewDefault when no base URL is configured.
	DefaultDomain = "http://localhost:8080"
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second
)

// ErrEmptyDomain is returned by New when the base URL is an empty string.
var ErrEmptyDomain = errors.New("domain parameter must be specified as a string")

// Client is the ThingsBoard PE API client.
//
// A Client holds no per-request state. BaseURL is fixed at construction and
// every request goes through Dispatch, which is safe for concurrent use.
type Client struct {
	BaseURL   string
	Token     string
	HTTP      *http.Client
	UserAgent string
	// MultipartAllFields sends every form field as its own part instead of
	// only the first one.
	MultipartAllFields bool
	Retry              RetryPolicy

	skipURLValidation bool
	validatedBaseURL  bool
	validateMu        sync.Mutex
}

var (
	_ Dispatcher = (*Client)(nil)
	_ Invoker    = (*Client)(nil)
)

var validateBaseURL = validation.ValidateBaseURL

// New creates a client bound to domain. An empty domain is rejected.
func New(domain, token string) (*Client, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, ErrEmptyDomain
	}

	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	return &Client{
		BaseURL:           strings.TrimRight(domain, "/"),
		Token:             token,
		Retry:             DefaultRetryPolicy(),
		skipURLValidation: os.Getenv("TB_TESTING") == "1",
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}, nil
}

// NewDefault creates a client bound to DefaultDomain.
func NewDefault(token string) *Client {
	c, _ := New(DefaultDomain, token)
	return c
}

// newTestClient creates a client with URL validation disabled for testing
func newTestClient(baseURL, token string) *Client {
	c, err := New(baseURL, token)
	if err != nil {
		panic(err)
	}
	c.skipURLValidation = true
	c.Retry = RetryPolicy{}
	return c
}

// SkipURLValidation disables base URL checks, used by callers that already
// validated the URL or target a local instance on purpose.
func (c *Client) SkipURLValidation() {
	c.skipURLValidation = true
}

// SetTimeout changes the per-request timeout. Zero disables it.
func (c *Client) SetTimeout(d time.Duration) {
	if c.HTTP == nil {
		c.HTTP = &http.Client{}
	}
	c.HTTP.Timeout = d
}

func (c *Client) ensureBaseURLValidated() error {
	if c.skipURLValidation {
		return nil
	}

	c.validateMu.Lock()
	defer c.validateMu.Unlock()

	if c.validatedBaseURL {
		return nil
	}
	if err := validateBaseURL(c.BaseURL); err != nil {
		return fmt.Errorf("URL validation failed: %w", err)
	}
	c.validatedBaseURL = true
	return nil
}

// url joins path onto the base URL.
func (c *Client) url(path string) string {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	return c.BaseURL + path
}
