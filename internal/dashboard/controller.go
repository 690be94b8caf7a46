package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bermudafunk/studio-dashboard/internal/graph"
	"github.com/bermudafunk/studio-dashboard/internal/led"
	"github.com/bermudafunk/studio-dashboard/internal/protocol"
)

// Transport is the realtime connection as the controller sees it.
type Transport interface {
	IsOpen() bool
}

// API is the one-shot HTTP side of the dispatcher.
type API interface {
	Studios(ctx context.Context) ([]string, error)
	Press(ctx context.Context, studio, kind string) error
}

// Registry tracks the selected studio and issues snapshot pulls.
type Registry interface {
	Select(studio string)
	Selected() string
	Request(studio string)
}

// SelectorView receives the studio list for the selector widget.
type SelectorView interface {
	SetStudios(studios []string)
}

// StatusView renders the process-wide dispatcher status record.
type StatusView interface {
	SetDispatcherStatus(status protocol.DispatcherStatus)
}

// Controller is the top-level glue: it owns the process-scoped mutable
// dashboard state and wires user actions to the subscription registry,
// the one-shot HTTP calls and the local render state.
type Controller struct {
	api       API
	registry  Registry
	transport Transport
	cache     *led.Cache
	graph     *graph.Panel
	selector  SelectorView
	status    StatusView

	mu         sync.Mutex
	lastStatus protocol.DispatcherStatus
}

// New wires a controller. All collaborators are required.
func New(api API, registry Registry, transport Transport, cache *led.Cache, panel *graph.Panel, selector SelectorView, status StatusView) *Controller {
	return &Controller{
		api:       api,
		registry:  registry,
		transport: transport,
		cache:     cache,
		graph:     panel,
		selector:  selector,
		status:    status,
	}
}

// Run performs the initial studio-list fetch: it populates the
// selector, registers every studio with the LED cache and, when the
// realtime connection is already open, eagerly pulls a snapshot for
// every studio so the cache is warm regardless of which studio is
// selected.
func (c *Controller) Run(ctx context.Context) error {
	studios, err := c.api.Studios(ctx)
	if err != nil {
		return fmt.Errorf("initial studio list: %w", err)
	}
	slog.Info("studio list loaded", "component", "Dashboard", "count", len(studios))

	c.selector.SetStudios(studios)
	for _, studio := range studios {
		c.cache.Register(studio)
	}
	if c.transport.IsOpen() {
		for _, studio := range studios {
			c.registry.Request(studio)
		}
	}
	return nil
}

// SelectStudio handles a change of the studio selector.
func (c *Controller) SelectStudio(studio string) {
	c.registry.Select(studio)
}

// Press fires the given button for the selected studio. With no studio
// selected it does nothing; failures are logged, never surfaced.
func (c *Controller) Press(ctx context.Context, kind string) {
	studio := c.registry.Selected()
	if studio == "" {
		return
	}
	if err := c.api.Press(ctx, studio, kind); err != nil {
		slog.Error("button press failed", "component", "Dashboard", "studio", studio, "kind", kind, "error", err)
	}
}

// SelectGraph swaps the displayed graph image. Purely local.
func (c *Controller) SelectGraph(url string) {
	c.graph.Select(url)
}

// HandleDispatcherStatus replaces the on-air record wholesale and
// renders it immediately. Transport inbound hook.
func (c *Controller) HandleDispatcherStatus(status protocol.DispatcherStatus) {
	c.mu.Lock()
	c.lastStatus = status
	c.mu.Unlock()
	c.status.SetDispatcherStatus(status)
}

// DispatcherStatus returns the last received on-air record.
func (c *Controller) DispatcherStatus() protocol.DispatcherStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastStatus
}

// HandleLedStatus converts a wire status event and forwards it to the
// LED cache. Transport inbound hook.
func (c *Controller) HandleLedStatus(event protocol.StudioLedStatus) {
	status := make(map[led.Color]led.Status, len(event.Status))
	for color, st := range event.Status {
		status[led.Color(strings.ToLower(color))] = led.Status{
			State:     led.NormalizeState(st.State),
			BlinkFreq: st.BlinkFreq,
		}
	}
	c.cache.Apply(event.Studio, status)
}
