package render

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/bermudafunk/studio-dashboard/internal/led"
	"github.com/bermudafunk/studio-dashboard/internal/protocol"
)

// Log is a headless render target that writes every widget update to
// the structured log. It implements the render interfaces of the LED
// cache, the graph panel and the dashboard controller, so the binary
// can run without a real display attached.
type Log struct {
	mu    sync.Mutex
	lamps map[string]map[led.Color]led.Status
}

// NewLog creates an empty log renderer.
func NewLog() *Log {
	return &Log{lamps: make(map[string]map[led.Color]led.Status)}
}

// SetLamp records a lamp value; the row is logged on RefreshRow.
func (l *Log) SetLamp(studio string, color led.Color, status led.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	row, ok := l.lamps[studio]
	if !ok {
		row = make(map[led.Color]led.Status, len(led.Colors))
		l.lamps[studio] = row
	}
	row[color] = status
}

// RefreshRow logs a studio's whole lamp row in one line.
func (l *Log) RefreshRow(studio string) {
	l.mu.Lock()
	row := l.lamps[studio]
	parts := make([]string, 0, len(row))
	for _, color := range led.Colors {
		status, ok := row[color]
		if !ok {
			continue
		}
		part := fmt.Sprintf("%s=%s", color, status.State)
		if status.State == led.Blink {
			part += fmt.Sprintf("(%s)", status.Period())
		}
		parts = append(parts, part)
	}
	l.mu.Unlock()
	slog.Info("studio lamps", "component", "Render", "studio", studio, "lamps", strings.Join(parts, " "))
}

// SetStudios logs the selector options.
func (l *Log) SetStudios(studios []string) {
	sorted := make([]string, len(studios))
	copy(sorted, studios)
	sort.Strings(sorted)
	slog.Info("studio selector", "component", "Render", "studios", strings.Join(sorted, ","))
}

// SetDispatcherStatus logs the on-air record.
func (l *Log) SetDispatcherStatus(status protocol.DispatcherStatus) {
	slog.Info("dispatcher status", "component", "Render",
		"on_air_studio", status.OnAirStudio, "state", status.State, "x", status.X, "y", status.Y)
}

// SetImage logs the graph image source.
func (l *Log) SetImage(src string) {
	slog.Info("graph image", "component", "Render", "src", src)
}

// SetButtonSelected logs graph button styling changes.
func (l *Log) SetButtonSelected(url string, selected bool) {
	slog.Debug("graph button", "component", "Render", "url", url, "selected", selected)
}
