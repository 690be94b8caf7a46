package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/bermudafunk/studio-dashboard/internal/graph"
	"github.com/bermudafunk/studio-dashboard/internal/led"
	"github.com/bermudafunk/studio-dashboard/internal/protocol"
)

type fakeAPI struct {
	studios    []string
	studiosErr error
	presses    [][2]string
	pressErr   error
}

func (f *fakeAPI) Studios(ctx context.Context) ([]string, error) {
	return f.studios, f.studiosErr
}

func (f *fakeAPI) Press(ctx context.Context, studio, kind string) error {
	f.presses = append(f.presses, [2]string{studio, kind})
	return f.pressErr
}

type fakeRegistry struct {
	selected  string
	selects   []string
	requested []string
}

func (f *fakeRegistry) Select(studio string) {
	f.selected = studio
	f.selects = append(f.selects, studio)
}

func (f *fakeRegistry) Selected() string { return f.selected }

func (f *fakeRegistry) Request(studio string) { f.requested = append(f.requested, studio) }

type fakeTransport struct{ open bool }

func (f *fakeTransport) IsOpen() bool { return f.open }

type fakeViews struct {
	studios  []string
	statuses []protocol.DispatcherStatus
	images   []string
	selected map[string]bool
}

func newFakeViews() *fakeViews { return &fakeViews{selected: make(map[string]bool)} }

func (f *fakeViews) SetStudios(studios []string) { f.studios = studios }

func (f *fakeViews) SetDispatcherStatus(s protocol.DispatcherStatus) {
	f.statuses = append(f.statuses, s)
}

func (f *fakeViews) SetImage(src string) { f.images = append(f.images, src) }

func (f *fakeViews) SetButtonSelected(url string, sel bool) { f.selected[url] = sel }

type lampRecorder struct {
	lamps map[string]map[led.Color]led.Status
}

func newLampRecorder() *lampRecorder {
	return &lampRecorder{lamps: make(map[string]map[led.Color]led.Status)}
}

func (l *lampRecorder) SetLamp(studio string, color led.Color, status led.Status) {
	row, ok := l.lamps[studio]
	if !ok {
		row = make(map[led.Color]led.Status)
		l.lamps[studio] = row
	}
	row[color] = status
}

func (l *lampRecorder) RefreshRow(string) {}

func newController(api *fakeAPI, reg *fakeRegistry, tr *fakeTransport) (*Controller, *fakeViews, *lampRecorder) {
	views := newFakeViews()
	lamps := newLampRecorder()
	cache := led.NewCache(lamps)
	panel := graph.NewPanel(views, "a.png", "b.png")
	return New(api, reg, tr, cache, panel, views, views), views, lamps
}

func TestRunPopulatesSelectorAndCache(t *testing.T) {
	api := &fakeAPI{studios: []string{"studio-a", "studio-b"}}
	reg := &fakeRegistry{}
	c, views, lamps := newController(api, reg, &fakeTransport{open: false})

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(views.studios) != 2 {
		t.Errorf("selector studios = %v", views.studios)
	}
	if _, ok := lamps.lamps["studio-a"]; !ok {
		t.Error("studio-a not registered with the cache")
	}
	if len(reg.requested) != 0 {
		t.Errorf("warm-up pulls issued while transport closed: %v", reg.requested)
	}
}

func TestRunWarmsCacheWhenTransportOpen(t *testing.T) {
	api := &fakeAPI{studios: []string{"studio-a", "studio-b"}}
	reg := &fakeRegistry{}
	c, _, _ := newController(api, reg, &fakeTransport{open: true})

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(reg.requested) != 2 {
		t.Fatalf("warm-up pulls = %v, want one per studio", reg.requested)
	}
	if reg.requested[0] != "studio-a" || reg.requested[1] != "studio-b" {
		t.Errorf("warm-up pulls = %v", reg.requested)
	}
	if len(reg.selects) != 0 {
		t.Errorf("warm-up must not change the selection: %v", reg.selects)
	}
}

func TestRunSurfacesFetchError(t *testing.T) {
	api := &fakeAPI{studiosErr: errors.New("backend down")}
	c, _, _ := newController(api, &fakeRegistry{}, &fakeTransport{})

	if err := c.Run(context.Background()); err == nil {
		t.Error("Run must fail when the studio list fetch fails")
	}
}

func TestPressRequiresSelection(t *testing.T) {
	api := &fakeAPI{}
	reg := &fakeRegistry{}
	c, _, _ := newController(api, reg, &fakeTransport{})

	c.Press(context.Background(), "takeover")
	if len(api.presses) != 0 {
		t.Errorf("press fired with no selection: %v", api.presses)
	}

	reg.selected = "studio-a"
	c.Press(context.Background(), "takeover")
	if len(api.presses) != 1 || api.presses[0] != [2]string{"studio-a", "takeover"} {
		t.Errorf("presses = %v", api.presses)
	}
}

func TestPressErrorIsNotSurfaced(t *testing.T) {
	api := &fakeAPI{pressErr: errors.New("boom")}
	reg := &fakeRegistry{selected: "studio-a"}
	c, _, _ := newController(api, reg, &fakeTransport{})

	c.Press(context.Background(), "release") // must not panic
}

func TestHandleDispatcherStatusReplacesWholesale(t *testing.T) {
	c, views, _ := newController(&fakeAPI{}, &fakeRegistry{}, &fakeTransport{})

	c.HandleDispatcherStatus(protocol.DispatcherStatus{OnAirStudio: "studio-a", State: "studio_X_on_air", X: 1})
	c.HandleDispatcherStatus(protocol.DispatcherStatus{OnAirStudio: "automat", State: "automat_on_air"})

	if got := c.DispatcherStatus(); got.OnAirStudio != "automat" || got.X != 0 {
		t.Errorf("last status = %+v, want the second record wholesale", got)
	}
	if len(views.statuses) != 2 {
		t.Errorf("rendered %d statuses, want 2 (render immediately per event)", len(views.statuses))
	}
}

func TestHandleLedStatusNormalizesAndForwards(t *testing.T) {
	api := &fakeAPI{studios: []string{"studio-a"}}
	c, _, lamps := newController(api, &fakeRegistry{}, &fakeTransport{})
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	c.HandleLedStatus(protocol.StudioLedStatus{
		Studio: "studio-a",
		Status: map[string]protocol.LedStatus{
			"Green": {State: "ON"},
			"red":   {State: "Blink", BlinkFreq: 2},
		},
	})

	if got := lamps.lamps["studio-a"][led.Green]; got.State != led.On {
		t.Errorf("green = %+v, want normalized state on", got)
	}
	if got := lamps.lamps["studio-a"][led.Red]; got.State != led.Blink || got.BlinkFreq != 2 {
		t.Errorf("red = %+v", got)
	}
}

func TestHandleLedStatusUnknownStudioIsDropped(t *testing.T) {
	c, _, lamps := newController(&fakeAPI{}, &fakeRegistry{}, &fakeTransport{})

	c.HandleLedStatus(protocol.StudioLedStatus{
		Studio: "ghost",
		Status: map[string]protocol.LedStatus{"green": {State: "on"}},
	})

	if len(lamps.lamps) != 0 {
		t.Errorf("update for unregistered studio reached the renderer: %v", lamps.lamps)
	}
}

func TestSelectStudioDelegates(t *testing.T) {
	reg := &fakeRegistry{}
	c, _, _ := newController(&fakeAPI{}, reg, &fakeTransport{})

	c.SelectStudio("studio-b")
	c.SelectStudio("")

	if len(reg.selects) != 2 || reg.selects[0] != "studio-b" || reg.selects[1] != "" {
		t.Errorf("selects = %v", reg.selects)
	}
}

func TestSelectGraphIsLocalOnly(t *testing.T) {
	api := &fakeAPI{}
	reg := &fakeRegistry{}
	c, views, _ := newController(api, reg, &fakeTransport{open: true})

	c.SelectGraph("a.png")

	if len(api.presses) != 0 || len(reg.requested) != 0 || len(reg.selects) != 0 {
		t.Error("graph selection must never touch the network")
	}
	if len(views.images) != 1 {
		t.Errorf("images = %v", views.images)
	}
}
