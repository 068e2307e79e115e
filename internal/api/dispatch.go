package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/thingsboard/tb-cli/internal/debug"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonContentType matches application/json and application/*+json.
var jsonContentType = regexp.MustCompile(`^application/(.+\+)?json`)

// Request is one outbound call. URL may be absolute or a path relative to
// the client's base URL. When Form is non-empty, Body is ignored.
type Request struct {
	Method string
	URL    string
	Header http.Header
	// Body is nil, raw content ([]byte, string, io.Reader) or any value
	// that is sent as JSON.
	Body  any
	Query Query
	Form  Form
}

// Kind tells a successful Result with a body from a 204.
type Kind int

const (
	KindSuccess Kind = iota
	KindNoContent
)

func (k Kind) String() string {
	if k == KindNoContent {
		return "no_content"
	}
	return "success"
}

// Result is a 2xx response. Body holds the decoded JSON value when the
// response declared a JSON content type and parsed cleanly, and the raw
// text otherwise. Body is nil for KindNoContent.
type Result struct {
	Kind       Kind
	StatusCode int
	Header     http.Header
	Body       any
	Raw        []byte
	Parsed     bool
}

// Decode unmarshals the raw response body into v.
func (r *Result) Decode(v any) error {
	if r == nil || len(r.Raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
	}
	return nil
}

// preparedRequest is a Request after encoding, reusable across attempts.
type preparedRequest struct {
	method string
	url    string
	header http.Header
	body   []byte
}

// Dispatch sends req and classifies the response: 204 yields a
// KindNoContent result, other 2xx a KindSuccess result, and every other
// status an *APIError. Errors from the HTTP transport are returned as is.
func (c *Client) Dispatch(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if err := c.ensureBaseURLValidated(); err != nil {
		return nil, err
	}
	prepared, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	if !c.Retry.appliesTo(prepared.method) {
		return c.roundTrip(ctx, prepared)
	}
	return c.retryRoundTrip(ctx, prepared)
}

func (c *Client) prepare(req *Request) (*preparedRequest, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	header := http.Header{}
	for name, values := range req.Header {
		for _, v := range values {
			header.Add(name, v)
		}
	}

	var body []byte
	switch {
	case len(req.Form) > 0:
		enc, err := formatForm(req.Header, req.Form, c.MultipartAllFields)
		if err != nil {
			return nil, err
		}
		encoded, contentType, err := enc.encode()
		if err != nil {
			return nil, err
		}
		body = encoded
		header.Set("Content-Type", contentType)
	case !isEmptyBody(req.Body):
		switch b := req.Body.(type) {
		case []byte:
			body = b
		case string:
			body = []byte(b)
		case io.Reader:
			read, err := io.ReadAll(b)
			if err != nil {
				return nil, fmt.Errorf("failed to read request body: %w", err)
			}
			body = read
		default:
			encoded, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			body = encoded
			if header.Get("Content-Type") == "" {
				header.Set("Content-Type", contentTypeJSON)
			}
		}
	}

	target := req.URL
	if strings.HasPrefix(target, "/") || target == "" {
		target = c.url(target)
	}
	target, err := appendQuery(target, req.Query)
	if err != nil {
		return nil, err
	}

	if header.Get("Accept") == "" {
		header.Set("Accept", contentTypeJSON)
	}
	if c.UserAgent != "" && header.Get("User-Agent") == "" {
		header.Set("User-Agent", c.UserAgent)
	}
	if c.Token != "" && header.Get(AuthHeader) == "" {
		header.Set(AuthHeader, "Bearer "+c.Token)
	}

	return &preparedRequest{method: method, url: target, header: header, body: body}, nil
}

// isEmptyBody treats nil, typed nils and empty maps as no body.
func isEmptyBody(body any) bool {
	if body == nil {
		return true
	}
	rv := reflect.ValueOf(body)
	switch rv.Kind() {
	case reflect.Map:
		return rv.IsNil() || rv.Len() == 0
	case reflect.Pointer, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func (c *Client) roundTrip(ctx context.Context, p *preparedRequest) (*Result, error) {
	start := time.Now()
	var bodyReader io.Reader
	if p.body != nil {
		bodyReader = bytes.NewReader(p.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, p.method, p.url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header = p.header.Clone()

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", p.method, "url", p.url, "error", err)
		}
		return nil, err
	}
	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", p.method, "url", p.url, "status", resp.StatusCode, "bytes", len(raw), "duration", time.Since(start))
	}

	if resp.StatusCode == http.StatusNoContent {
		return &Result{Kind: KindNoContent, StatusCode: resp.StatusCode, Header: resp.Header}, nil
	}

	body, parsed := decodeBody(resp.Header.Get("Content-Type"), raw)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Result{
			Kind:       KindSuccess,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
			Raw:        raw,
			Parsed:     parsed,
		}, nil
	}
	return nil, newAPIError(resp.StatusCode, resp.Header, body, raw, parsed)
}

// decodeBody parses raw as JSON when contentType says so. A body that
// fails to parse is returned as text with parsed=false.
func decodeBody(contentType string, raw []byte) (any, bool) {
	if jsonContentType.MatchString(contentType) {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, true
		}
	}
	return string(raw), false
}
