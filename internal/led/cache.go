package led

import (
	"log/slog"
	"sync"
)

// Renderer is the render target the cache writes lamp values into. The
// dashboard binary plugs in a log-backed implementation; tests use a
// recording fake.
type Renderer interface {
	// SetLamp updates a single lamp of a studio's row.
	SetLamp(studio string, color Color, status Status)
	// RefreshRow re-renders a studio's whole row from its current values.
	RefreshRow(studio string)
}

// Cache maps studio ids to their per-color lamp values and keeps the
// render targets in sync with inbound status events.
type Cache struct {
	mu       sync.Mutex
	renderer Renderer
	studios  map[string]map[Color]Status
}

// NewCache creates an empty cache rendering into r.
func NewCache(r Renderer) *Cache {
	return &Cache{
		renderer: r,
		studios:  make(map[string]map[Color]Status),
	}
}

// Register creates the render target for a studio, one lamp per known
// color, all off. Re-registering an already-known studio leaves its
// values untouched but still re-renders the row.
func (c *Cache) Register(studio string) {
	c.mu.Lock()
	row, known := c.studios[studio]
	if !known {
		row = make(map[Color]Status, len(Colors))
		for _, color := range Colors {
			row[color] = Status{State: Off}
		}
		c.studios[studio] = row
	}
	for _, color := range Colors {
		c.renderer.SetLamp(studio, color, row[color])
	}
	c.mu.Unlock()
	c.renderer.RefreshRow(studio)
}

// Apply merges a status event into a studio's row. Colors present in
// status are updated; colors absent keep their previous rendered value.
// Updates for studios that were never registered are dropped silently:
// the server may race ahead of the studio-list fetch.
func (c *Cache) Apply(studio string, status map[Color]Status) {
	c.mu.Lock()
	row, known := c.studios[studio]
	if !known {
		c.mu.Unlock()
		slog.Debug("dropping status for unregistered studio", "component", "LedCache", "studio", studio)
		return
	}
	for color, st := range status {
		if st.State == Blink && st.BlinkFreq <= 0 {
			slog.Warn("blinking lamp with non-positive frequency", "component", "LedCache",
				"studio", studio, "color", string(color), "blink_freq", st.BlinkFreq)
		}
		row[color] = st
		c.renderer.SetLamp(studio, color, st)
	}
	c.mu.Unlock()
	c.renderer.RefreshRow(studio)
}

// Known reports whether a studio has been registered.
func (c *Cache) Known(studio string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.studios[studio]
	return ok
}

// Status returns the current value of one lamp; the zero Status when
// the studio is unknown.
func (c *Cache) Status(studio string, color Color) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.studios[studio][color]
}
