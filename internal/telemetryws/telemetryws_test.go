package telemetryws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/tidwall/gjson"

	"github.com/thingsboard/tb-cli/internal/api"
)

// mockServer accepts one WebSocket connection and hands it to handler.
func mockServer(t *testing.T, handler func(ctx context.Context, r *http.Request, conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer func() { _ = conn.CloseNow() }()
		handler(r.Context(), r, conn)
	}))
}

func wsURL(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	u, err := URL(srv.URL, "jwt")
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	return u
}

func TestURL(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "ws://localhost:8080/api/ws/plugins/telemetry?token=a%2Bb", false},
		{"https://tb.example.com/", "wss://tb.example.com/api/ws/plugins/telemetry?token=a%2Bb", false},
		{"https://tb.example.com/tb", "wss://tb.example.com/tb/api/ws/plugins/telemetry?token=a%2Bb", false},
		{"ftp://tb.example.com", "", true},
	}
	for _, tt := range tests {
		got, err := URL(tt.base, "a+b")
		if (err != nil) != tt.wantErr {
			t.Errorf("URL(%q) err = %v", tt.base, err)
			continue
		}
		if got != tt.want {
			t.Errorf("URL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
	if _, err := URL("http://localhost", ""); err == nil {
		t.Error("empty token should fail")
	}
}

func TestParseFrame(t *testing.T) {
	update, ok := ParseFrame([]byte(`{"subscriptionId":3,"errorCode":0,"errorMsg":null,"data":{"temperature":[[1700000000000,"22.5"],[1700000001000,"23"]],"active":[[1700000000000,true]]}}`))
	if !ok {
		t.Fatal("expected a frame")
	}
	if update.SubscriptionID != 3 || update.Err != nil {
		t.Fatalf("update = %+v", update)
	}
	temps := update.Values["temperature"]
	if len(temps) != 2 || temps[1].Ts != api.Millis(1700000001000) || temps[1].Value != "23" {
		t.Errorf("temperature = %+v", temps)
	}
	if got := update.Values["active"]; len(got) != 1 || got[0].Value != true {
		t.Errorf("active = %+v", got)
	}
}

func TestParseFrame_Error(t *testing.T) {
	update, ok := ParseFrame([]byte(`{"subscriptionId":1,"errorCode":2,"errorMsg":"Entity not found"}`))
	if !ok {
		t.Fatal("expected a frame")
	}
	var subErr *SubscriptionError
	if !errors.As(update.Err, &subErr) {
		t.Fatalf("err = %v", update.Err)
	}
	if subErr.Code != 2 || subErr.Message != "Entity not found" {
		t.Errorf("subErr = %+v", subErr)
	}
}

func TestParseFrame_Skipped(t *testing.T) {
	for _, frame := range []string{`not json`, `{"cmdUpdateType":"ALARM_DATA"}`} {
		if _, ok := ParseFrame([]byte(frame)); ok {
			t.Errorf("frame %q should be skipped", frame)
		}
	}
}

func TestConnectSendsToken(t *testing.T) {
	tokens := make(chan string, 1)
	srv := mockServer(t, func(ctx context.Context, r *http.Request, conn *websocket.Conn) {
		tokens <- r.URL.Query().Get("token")
		time.Sleep(50 * time.Millisecond)
	})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Connect(ctx, wsURL(t, srv))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer func() { _ = c.Close() }()

	if got := <-tokens; got != "jwt" {
		t.Errorf("token = %q", got)
	}
}

func TestConnectRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Connect(ctx, wsURL(t, srv))
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("err = %v", err)
	}
}

func TestSubscribeAndListen(t *testing.T) {
	commands := make(chan []byte, 1)
	srv := mockServer(t, func(ctx context.Context, r *http.Request, conn *websocket.Conn) {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		commands <- data
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"subscriptionId":1,"errorCode":0,"data":{"temperature":[[1700000000000,"21"]]}}`))
		_ = conn.Write(ctx, websocket.MessageText, []byte(`garbage`))
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"subscriptionId":2,"errorCode":0,"data":{"fw":[[1700000000000,"1.2"]]}}`))
		time.Sleep(200 * time.Millisecond)
	})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Connect(ctx, wsURL(t, srv))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer func() { _ = c.Close() }()

	err = c.Subscribe(ctx,
		Subscription{CmdID: 1, EntityType: "DEVICE", EntityID: "d1", Scope: ScopeLatest, Keys: []string{"temperature", "humidity"}},
		Subscription{CmdID: 2, EntityType: "DEVICE", EntityID: "d1", Scope: api.ScopeClient},
	)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	cmd := gjson.ParseBytes(<-commands)
	if got := cmd.Get("tsSubCmds.0.keys").String(); got != "temperature,humidity" {
		t.Errorf("ts keys = %q", got)
	}
	if got := cmd.Get("tsSubCmds.0.scope").String(); got != ScopeLatest {
		t.Errorf("ts scope = %q", got)
	}
	if got := cmd.Get("attrSubCmds.0.cmdId").Int(); got != 2 {
		t.Errorf("attr cmdId = %d", got)
	}
	if cmd.Get("attrSubCmds.0.keys").Exists() {
		t.Error("empty keys should be omitted")
	}
	if !cmd.Get("historyCmds").IsArray() {
		t.Error("historyCmds should be an empty array")
	}

	events := c.Listen(ctx)
	first := <-events
	if first.Err != nil || first.SubscriptionID != 1 || first.Values["temperature"][0].Value != "21" {
		t.Fatalf("first = %+v", first)
	}
	second := <-events
	if second.Err != nil || second.SubscriptionID != 2 {
		t.Fatalf("second = %+v", second)
	}
}

func TestSubscribeRequiresCommands(t *testing.T) {
	c := &Client{}
	if err := c.Subscribe(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestUnsubscribe(t *testing.T) {
	commands := make(chan []byte, 1)
	srv := mockServer(t, func(ctx context.Context, r *http.Request, conn *websocket.Conn) {
		_, data, _ := conn.Read(ctx)
		commands <- data
	})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Connect(ctx, wsURL(t, srv))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.Unsubscribe(ctx, 7); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	cmd := gjson.ParseBytes(<-commands)
	if !cmd.Get("tsSubCmds.0.unsubscribe").Bool() || cmd.Get("tsSubCmds.0.cmdId").Int() != 7 {
		t.Errorf("cmd = %s", cmd.Raw)
	}
}

func TestListenIdleTimeout(t *testing.T) {
	srv := mockServer(t, func(ctx context.Context, r *http.Request, conn *websocket.Conn) {
		_, _, _ = conn.Read(ctx)
	})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Connect(ctx, wsURL(t, srv))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer func() { _ = c.conn.CloseNow() }()

	ev := <-c.ListenWithTimeout(ctx, 50*time.Millisecond)
	if !errors.Is(ev.Err, ErrIdleTimeout) {
		t.Fatalf("err = %v, want ErrIdleTimeout", ev.Err)
	}
}

func TestListenStopsOnCancel(t *testing.T) {
	srv := mockServer(t, func(ctx context.Context, r *http.Request, conn *websocket.Conn) {
		_, _, _ = conn.Read(ctx)
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c, err := Connect(ctx, wsURL(t, srv))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer func() { _ = c.conn.CloseNow() }()

	events := c.Listen(ctx)
	cancel()
	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected channel to close without events")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not stop after cancel")
	}
}
