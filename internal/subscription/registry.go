package subscription

import (
	"log/slog"
	"sync"

	"github.com/bermudafunk/studio-dashboard/internal/protocol"
)

// Sender is the outbound side of the realtime connection.
type Sender interface {
	Send(v any) error
}

// Registry tracks which studio the dashboard currently cares about and
// issues snapshot pulls for it. The server answers each pull once with
// the studio's current LED state; there is no persistent server-side
// subscription, which is why Resubscribe runs on every transport open.
type Registry struct {
	sender Sender

	mu       sync.Mutex
	selected string
}

// New creates a registry sending over s.
func New(s Sender) *Registry {
	return &Registry{sender: s}
}

// Select changes the selected studio. An empty id clears the selection
// without any network traffic; a nonempty id stores the selection and
// triggers exactly one snapshot pull.
func (r *Registry) Select(studio string) {
	r.mu.Lock()
	r.selected = studio
	r.mu.Unlock()
	if studio == "" {
		return
	}
	r.request(studio)
}

// Selected returns the currently selected studio, or "" when none.
func (r *Registry) Selected() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// Request issues a one-shot snapshot pull for a studio without
// touching the selection. The controller uses it to warm the LED cache
// for every studio after the initial list fetch.
func (r *Registry) Request(studio string) {
	if studio == "" {
		return
	}
	r.request(studio)
}

// Resubscribe re-issues the pull for the current selection, nothing
// when there is none. Wired as the transport's open hook.
func (r *Registry) Resubscribe() {
	studio := r.Selected()
	if studio == "" {
		return
	}
	r.request(studio)
}

func (r *Registry) request(studio string) {
	if err := r.sender.Send(protocol.NewSubscribeRequest(studio)); err != nil {
		// A pull lost to a closed connection is recovered by the next
		// open hook; missing one snapshot is tolerated.
		slog.Debug("snapshot pull not sent", "component", "Subscription", "studio", studio, "error", err)
	}
}
