package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Button kinds accepted by the press endpoint.
const (
	ButtonTakeover  = "takeover"
	ButtonRelease   = "release"
	ButtonImmediate = "immediate"
)

// Client issues the one-shot HTTP calls the dashboard needs besides the
// realtime connection: the initial studio list and button presses.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the dispatcher at endpoint
// (e.g. "http://dispatcher.local:8080").
func New(endpoint string) *Client {
	return &Client{
		base: strings.TrimRight(endpoint, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Studios fetches the list of studio identifiers.
func (c *Client) Studios(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/v1/studios", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch studio list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch studio list: unexpected status %s", resp.Status)
	}
	var studios []string
	if err := json.NewDecoder(resp.Body).Decode(&studios); err != nil {
		return nil, fmt.Errorf("decode studio list: %w", err)
	}
	return studios, nil
}

// Press fires a button press for a studio. The response body is
// discarded: the resulting state change arrives over the realtime
// connection, not in this reply.
func (c *Client) Press(ctx context.Context, studio, kind string) error {
	pressURL := fmt.Sprintf("%s/api/v1/%s/press/%s", c.base, url.PathEscape(studio), url.PathEscape(kind))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pressURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("press %s/%s: %w", studio, kind, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}
