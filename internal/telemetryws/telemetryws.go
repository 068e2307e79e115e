// Package telemetryws subscribes to live ThingsBoard telemetry over the
// /api/ws/plugins/telemetry WebSocket.
package telemetryws

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/thingsboard/tb-cli/internal/api"
)

// Path is the telemetry plugin endpoint. The JWT travels in the token
// query parameter since browsers cannot set headers on WebSocket upgrades.
const Path = "/api/ws/plugins/telemetry"

// Subscription scopes. Attribute scopes reuse the api constants.
const (
	ScopeLatest = "LATEST_TELEMETRY"
)

const maxReadSize = 4 << 20

// ErrIdleTimeout is returned when no frame arrives within the idle timeout.
var ErrIdleTimeout = errors.New("idle timeout: no frames received")

// Subscription is one tsSubCmds or attrSubCmds entry.
// An empty Keys subscribes to every key. Scope is ScopeLatest or one of the
// attribute scopes.
type Subscription struct {
	CmdID      int
	EntityType string
	EntityID   string
	Scope      string
	Keys       []string
}

func (s Subscription) isAttributes() bool {
	return s.Scope != ScopeLatest
}

type subCmd struct {
	CmdID       int    `json:"cmdId"`
	EntityType  string `json:"entityType,omitempty"`
	EntityID    string `json:"entityId,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Keys        string `json:"keys,omitempty"`
	Unsubscribe bool   `json:"unsubscribe,omitempty"`
}

type command struct {
	TsSubCmds   []subCmd `json:"tsSubCmds"`
	HistoryCmds []subCmd `json:"historyCmds"`
	AttrSubCmds []subCmd `json:"attrSubCmds"`
}

// Update is one frame pushed by the server.
type Update struct {
	SubscriptionID int
	// Values maps each key to its samples, newest last as sent.
	Values map[string][]api.TsValue
	Err    error
}

// SubscriptionError is a frame with a non-zero errorCode.
type SubscriptionError struct {
	SubscriptionID int
	Code           int
	Message        string
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription %d failed (code %d): %s", e.SubscriptionID, e.Code, e.Message)
}

// URL converts a ThingsBoard base URL (http or https) to the telemetry
// WebSocket URL carrying token.
func URL(baseURL, token string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if token == "" {
		return "", errors.New("token is required")
	}
	u.Path += Path
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String(), nil
}

// Client is a telemetry WebSocket connection.
type Client struct {
	conn *websocket.Conn
}

// Connect dials the telemetry endpoint.
func Connect(ctx context.Context, wsURL string) (*Client, error) {
	conn, resp, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial: %s: %w", resp.Status, err)
		}
		return nil, fmt.Errorf("dial: %w", err)
	}
	conn.SetReadLimit(maxReadSize)
	return &Client{conn: conn}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}

// Subscribe sends all subscriptions in a single command frame.
func (c *Client) Subscribe(ctx context.Context, subs ...Subscription) error {
	if len(subs) == 0 {
		return errors.New("no subscriptions")
	}
	cmd := command{TsSubCmds: []subCmd{}, HistoryCmds: []subCmd{}, AttrSubCmds: []subCmd{}}
	for _, s := range subs {
		sc := subCmd{
			CmdID:      s.CmdID,
			EntityType: s.EntityType,
			EntityID:   s.EntityID,
			Scope:      s.Scope,
			Keys:       strings.Join(s.Keys, ","),
		}
		if s.isAttributes() {
			cmd.AttrSubCmds = append(cmd.AttrSubCmds, sc)
		} else {
			cmd.TsSubCmds = append(cmd.TsSubCmds, sc)
		}
	}
	return c.write(ctx, cmd)
}

// Unsubscribe cancels time series subscriptions by command id.
func (c *Client) Unsubscribe(ctx context.Context, cmdIDs ...int) error {
	cmd := command{TsSubCmds: []subCmd{}, HistoryCmds: []subCmd{}, AttrSubCmds: []subCmd{}}
	for _, id := range cmdIDs {
		cmd.TsSubCmds = append(cmd.TsSubCmds, subCmd{CmdID: id, Unsubscribe: true})
	}
	return c.write(ctx, cmd)
}

func (c *Client) write(ctx context.Context, cmd command) error {
	data, err := jsoniter.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

// Listen starts the read loop. The channel closes when the connection
// drops or ctx is cancelled.
func (c *Client) Listen(ctx context.Context) <-chan Update {
	return c.ListenWithTimeout(ctx, 0)
}

// ListenWithTimeout is Listen with an idle timeout; 0 disables it.
func (c *Client) ListenWithTimeout(ctx context.Context, idle time.Duration) <-chan Update {
	ch := make(chan Update, 64)
	go func() {
		defer close(ch)
		for {
			readCtx := ctx
			var readCancel context.CancelFunc
			if idle > 0 {
				readCtx, readCancel = context.WithTimeout(ctx, idle)
			}

			_, data, err := c.conn.Read(readCtx)

			if readCancel != nil {
				readCancel()
			}

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if idle > 0 && readCtx.Err() != nil {
					err = ErrIdleTimeout
				}
				select {
				case ch <- Update{Err: err}:
				case <-ctx.Done():
				}
				return
			}

			update, ok := ParseFrame(data)
			if !ok {
				continue
			}
			select {
			case ch <- update:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// ParseFrame decodes a server frame. Frames without a subscriptionId are
// skipped.
func ParseFrame(data []byte) (Update, bool) {
	if !gjson.ValidBytes(data) {
		return Update{}, false
	}
	frame := gjson.ParseBytes(data)
	sub := frame.Get("subscriptionId")
	if !sub.Exists() {
		return Update{}, false
	}
	update := Update{SubscriptionID: int(sub.Int())}

	if code := frame.Get("errorCode").Int(); code != 0 {
		update.Err = &SubscriptionError{
			SubscriptionID: update.SubscriptionID,
			Code:           int(code),
			Message:        frame.Get("errorMsg").String(),
		}
		return update, true
	}

	update.Values = make(map[string][]api.TsValue)
	frame.Get("data").ForEach(func(key, samples gjson.Result) bool {
		var values []api.TsValue
		samples.ForEach(func(_, sample gjson.Result) bool {
			values = append(values, api.TsValue{
				Ts:    api.Millis(sample.Get("0").Int()),
				Value: sample.Get("1").Value(),
			})
			return true
		})
		update.Values[key.String()] = values
		return true
	})
	return update, true
}
