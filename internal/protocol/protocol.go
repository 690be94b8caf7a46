package protocol

import (
	"encoding/json"
	"fmt"
)

// Message kinds carried in the inbound wire envelope.
const (
	KindDispatcherStatus = "dispatcher.status"
	KindStudioLedStatus  = "studio.led.status"
)

// Envelope is the frame every inbound message arrives in. Payload stays
// raw until the kind is known; unrecognized kinds are dropped by the
// transport so new server-side message types never break old clients.
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// DispatcherStatus is the single process-wide on-air record. Every
// dispatcher.status event replaces it wholesale; no history is kept.
type DispatcherStatus struct {
	OnAirStudio string  `json:"on_air_studio"`
	State       string  `json:"state"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// LedStatus is the wire form of a single lamp: a state string plus the
// blink frequency in cycles per second (meaningful only when blinking).
type LedStatus struct {
	State     string  `json:"state"`
	BlinkFreq float64 `json:"blink_freq"`
}

// StudioLedStatus is the payload of a studio.led.status event: the full
// lamp set of one studio, keyed by color name.
type StudioLedStatus struct {
	Studio string               `json:"studio"`
	Status map[string]LedStatus `json:"status"`
}

// SubscribeRequest is the outbound one-shot pull asking the server to
// emit the current LED snapshot for a studio. The server answers once
// per request and keeps no subscription state across connections.
type SubscribeRequest struct {
	Type   string `json:"type"`
	Studio string `json:"studio"`
}

// NewSubscribeRequest builds the pull message for a studio.
func NewSubscribeRequest(studio string) SubscribeRequest {
	return SubscribeRequest{Type: KindStudioLedStatus, Studio: studio}
}

// DecodeEnvelope parses a raw inbound frame.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
