package graph

import (
	"sync"

	"github.com/google/uuid"
)

// View is the render target of the graph panel: one image surface plus
// a row of selection buttons, one per known graph url.
type View interface {
	SetImage(src string)
	SetButtonSelected(url string, selected bool)
}

// Panel tracks which historical graph image is displayed. Selection is
// purely local rendering state and never touches the network.
type Panel struct {
	mu       sync.Mutex
	view     View
	urls     []string
	selected string
}

// NewPanel creates a panel with one button per url, none selected.
func NewPanel(view View, urls ...string) *Panel {
	return &Panel{view: view, urls: urls}
}

// Select swaps the displayed image to url. A fresh cache-busting query
// parameter is appended on every call, so repeating a selection
// re-fetches the image instead of hitting the browser cache. Exactly
// the button matching url is styled selected; an empty url clears the
// image and every button.
func (p *Panel) Select(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = url
	for _, u := range p.urls {
		p.view.SetButtonSelected(u, url != "" && u == url)
	}
	if url == "" {
		p.view.SetImage("")
		return
	}
	p.view.SetImage(url + "?cb=" + uuid.NewString())
}

// Selected returns the url currently displayed, without its cache
// buster, or "" when cleared.
func (p *Panel) Selected() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// URLs returns the panel's button urls in order.
func (p *Panel) URLs() []string {
	out := make([]string, len(p.urls))
	copy(out, p.urls)
	return out
}
