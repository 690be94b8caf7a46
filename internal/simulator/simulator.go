package simulator

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/bermudafunk/studio-dashboard/internal/protocol"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // development tool, all origins welcome
	},
}

const automat = "automat"

// Simulator is a development stand-in for the dispatcher backend. It
// serves the studio list, accepts button presses, answers LED snapshot
// pulls and pushes status frames to every connected client. It applies
// no real dispatch policy; presses map to fixed LED patterns.
type Simulator struct {
	studios []string

	mu      sync.Mutex
	status  protocol.DispatcherStatus
	leds    map[string]map[string]protocol.LedStatus
	clients map[*websocket.Conn]bool
}

// New creates a simulator for the given studios, automat on air and
// every lamp off.
func New(studios ...string) *Simulator {
	s := &Simulator{
		studios: studios,
		status:  protocol.DispatcherStatus{OnAirStudio: automat, State: "automat_on_air"},
		leds:    make(map[string]map[string]protocol.LedStatus),
		clients: make(map[*websocket.Conn]bool),
	}
	for _, studio := range studios {
		s.leds[studio] = allOff()
	}
	return s
}

func allOff() map[string]protocol.LedStatus {
	return map[string]protocol.LedStatus{
		"green":  {State: "off"},
		"yellow": {State: "off"},
		"red":    {State: "off"},
	}
}

// Router returns the HTTP surface of the simulated dispatcher.
func (s *Simulator) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/studios", s.handleStudios).Methods("GET")
	r.HandleFunc("/api/v1/{studio}/press/{kind}", s.handlePress).Methods("GET")
	r.HandleFunc("/api/v1/ws", s.handleWS)
	return r
}

func (s *Simulator) handleStudios(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.studios)
}

func (s *Simulator) handlePress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studio, kind := vars["studio"], vars["kind"]

	s.mu.Lock()
	if _, ok := s.leds[studio]; !ok {
		s.mu.Unlock()
		http.Error(w, "unknown studio", http.StatusNotFound)
		return
	}

	switch kind {
	case "takeover":
		s.status = protocol.DispatcherStatus{OnAirStudio: studio, State: "studio_X_on_air"}
		for _, other := range s.studios {
			s.leds[other] = allOff()
		}
		s.leds[studio]["green"] = protocol.LedStatus{State: "on"}
	case "release":
		s.status = protocol.DispatcherStatus{OnAirStudio: automat, State: "automat_on_air"}
		for _, other := range s.studios {
			s.leds[other] = allOff()
		}
	case "immediate":
		// immediate request: yellow blinks normal, red blinks fast
		s.leds[studio]["yellow"] = protocol.LedStatus{State: "blink", BlinkFreq: 2}
		s.leds[studio]["red"] = protocol.LedStatus{State: "blink", BlinkFreq: 4}
	default:
		s.mu.Unlock()
		http.Error(w, "unknown button kind", http.StatusNotFound)
		return
	}

	frames := [][]byte{marshalEnvelope(protocol.KindDispatcherStatus, s.status)}
	for _, other := range s.studios {
		frames = append(frames, marshalEnvelope(protocol.KindStudioLedStatus, protocol.StudioLedStatus{
			Studio: other,
			Status: s.leds[other],
		}))
	}
	s.broadcastLocked(frames...)
	s.mu.Unlock()

	slog.Info("button pressed", "component", "Simulator", "studio", studio, "kind", kind)
	w.WriteHeader(http.StatusOK)
}

func (s *Simulator) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "component", "Simulator", "error", err)
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.clients[conn] = true
	frame := marshalEnvelope(protocol.KindDispatcherStatus, s.status)
	conn.WriteMessage(websocket.TextMessage, frame)
	s.mu.Unlock()

	slog.Debug("client connected", "component", "Simulator")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		s.handleRequest(conn, data)
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	slog.Debug("client disconnected", "component", "Simulator")
}

// handleRequest answers a snapshot pull with the studio's current LED
// state. Anything else is ignored.
func (s *Simulator) handleRequest(conn *websocket.Conn, data []byte) {
	var req protocol.SubscribeRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Type != protocol.KindStudioLedStatus {
		slog.Debug("ignoring client message", "component", "Simulator")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.leds[req.Studio]
	if !ok {
		return
	}
	frame := marshalEnvelope(protocol.KindStudioLedStatus, protocol.StudioLedStatus{
		Studio: req.Studio,
		Status: status,
	})
	conn.WriteMessage(websocket.TextMessage, frame)
}

// BroadcastStatus pushes the current dispatcher status to every client.
func (s *Simulator) BroadcastStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcastLocked(marshalEnvelope(protocol.KindDispatcherStatus, s.status))
}

// broadcastLocked writes frames to every client, dropping the ones
// that fail. Callers hold s.mu, which also serializes writes per
// connection.
func (s *Simulator) broadcastLocked(frames ...[]byte) {
	for conn := range s.clients {
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				conn.Close()
				delete(s.clients, conn)
				break
			}
		}
	}
}

func marshalEnvelope(kind string, payload any) []byte {
	raw, _ := json.Marshal(payload)
	frame, _ := json.Marshal(protocol.Envelope{Kind: kind, Payload: raw})
	return frame
}
