package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/bermudafunk/studio-dashboard/internal/protocol"

	"github.com/gorilla/websocket"
)

// ConnState is the lifecycle state of the realtime connection.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Open
	Closing
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closing:
		return "closing"
	}
	return "unknown"
}

// RetryPolicy decides how long to wait before the next connection
// attempt. The dashboard default is a fixed delay, no backoff, no retry
// cap: a passive monitor wants eventual recovery, not fast failure.
type RetryPolicy struct {
	Delay time.Duration
}

// DefaultRetry reconnects every 10 seconds.
var DefaultRetry = RetryPolicy{Delay: 10 * time.Second}

// Handlers receive dispatched inbound frames and lifecycle events. All
// of them are invoked from the read goroutine, in frame arrival order.
// OnOpen runs after every successful connect, before the first frame of
// that connection is delivered; the subscription registry hangs its
// resubscribe there because the server keeps no subscription state
// across a dropped connection.
type Handlers struct {
	OnOpen             func()
	OnDispatcherStatus func(protocol.DispatcherStatus)
	OnLedStatus        func(protocol.StudioLedStatus)
}

// Client owns the duplex connection lifecycle: connect, dispatch
// inbound frames by kind, detect closure, schedule reconnection.
//
// Handlers must be assigned before Start.
type Client struct {
	Handlers Handlers

	url    string
	dialer *websocket.Dialer
	retry  RetryPolicy

	mu     sync.Mutex
	state  ConnState
	conn   *websocket.Conn
	timer  *time.Timer
	closed bool
}

// EndpointURL derives the websocket endpoint from the dispatcher
// origin: the scheme mirrors the origin's (https gets the secure
// variant), the path is fixed.
func EndpointURL(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parse dispatcher endpoint: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported dispatcher endpoint scheme %q", u.Scheme)
	}
	u.Path = "/api/v1/ws"
	return u.String(), nil
}

// New creates a client for the dispatcher at origin. The connection is
// not opened until Start.
func New(origin string, retry RetryPolicy) (*Client, error) {
	wsURL, err := EndpointURL(origin)
	if err != nil {
		return nil, err
	}
	return &Client{
		url:    wsURL,
		dialer: websocket.DefaultDialer,
		retry:  retry,
	}, nil
}

// Start opens the connection in the background. After Start the client
// keeps itself connected until Stop, rescheduling a fresh attempt a
// fixed delay after every closure.
func (c *Client) Start() {
	go c.connect()
}

// Stop closes the connection and cancels any pending reconnect.
func (c *Client) Stop() {
	c.mu.Lock()
	c.closed = true
	c.state = Closing
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen reports whether frames can currently be sent.
func (c *Client) IsOpen() bool {
	return c.State() == Open
}

// Send serializes v and writes it to the connection. It fails when the
// connection is not open; callers that depend on delivery re-send from
// the open hook instead of retrying here.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Open || c.conn == nil {
		return fmt.Errorf("connection is %s", c.state)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode outbound message: %w", err)
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) connect() {
	c.mu.Lock()
	if c.closed || c.state == Connecting || c.state == Open {
		c.mu.Unlock()
		return
	}
	c.state = Connecting
	c.mu.Unlock()

	conn, _, err := c.dialer.Dial(c.url, nil)
	if err != nil {
		slog.Info("dial failed", "component", "Transport", "url", c.url, "error", err)
		c.mu.Lock()
		c.state = Disconnected
		c.mu.Unlock()
		c.scheduleReconnect()
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.state = Open
	c.mu.Unlock()
	slog.Info("connected", "component", "Transport", "url", c.url)

	if c.Handlers.OnOpen != nil {
		c.Handlers.OnOpen()
	}
	go c.readLoop(conn)
}

// readLoop delivers inbound frames in arrival order until the
// connection dies. Read errors and closure are indistinguishable here:
// once ReadMessage fails the connection is gone either way, so both
// end in a scheduled reconnect.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Info("connection closed", "component", "Transport")
			} else {
				slog.Error("connection lost", "component", "Transport", "error", err)
			}
			break
		}
		c.dispatch(data)
	}
	conn.Close()

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.state = Disconnected
	}
	c.mu.Unlock()
	c.scheduleReconnect()
}

// scheduleReconnect arms the retry timer. A single timer is pending at
// most once; repeated closures never stack attempts.
func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.timer != nil || c.state != Disconnected {
		return
	}
	slog.Info("reconnect scheduled", "component", "Transport", "delay", c.retry.Delay)
	c.timer = time.AfterFunc(c.retry.Delay, func() {
		c.mu.Lock()
		c.timer = nil
		c.mu.Unlock()
		c.connect()
	})
}

// dispatch routes one inbound frame by envelope kind. Unknown kinds are
// logged and dropped so a newer server never breaks the dashboard.
func (c *Client) dispatch(data []byte) {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		slog.Error("undecodable frame", "component", "Transport", "error", err)
		return
	}
	switch env.Kind {
	case protocol.KindDispatcherStatus:
		var status protocol.DispatcherStatus
		if err := json.Unmarshal(env.Payload, &status); err != nil {
			slog.Error("bad dispatcher.status payload", "component", "Transport", "error", err)
			return
		}
		if c.Handlers.OnDispatcherStatus != nil {
			c.Handlers.OnDispatcherStatus(status)
		}
	case protocol.KindStudioLedStatus:
		var status protocol.StudioLedStatus
		if err := json.Unmarshal(env.Payload, &status); err != nil {
			slog.Error("bad studio.led.status payload", "component", "Transport", "error", err)
			return
		}
		if c.Handlers.OnLedStatus != nil {
			c.Handlers.OnLedStatus(status)
		}
	default:
		slog.Debug("ignoring unknown message kind", "component", "Transport", "kind", env.Kind)
	}
}
