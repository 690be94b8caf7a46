package protocol

import (
	"encoding/json"
	"testing"
)

func TestDecodeEnvelopeDispatcherStatus(t *testing.T) {
	raw := `{"kind":"dispatcher.status","payload":{"on_air_studio":"studio-a","state":"studio_X_on_air","x":1,"y":0}}`

	env, err := DecodeEnvelope([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if env.Kind != KindDispatcherStatus {
		t.Fatalf("kind = %q, want %q", env.Kind, KindDispatcherStatus)
	}

	var status DispatcherStatus
	if err := json.Unmarshal(env.Payload, &status); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if status.OnAirStudio != "studio-a" || status.State != "studio_X_on_air" || status.X != 1 || status.Y != 0 {
		t.Errorf("status = %+v", status)
	}
}

func TestDecodeEnvelopeStudioLedStatus(t *testing.T) {
	raw := `{"kind":"studio.led.status","payload":{"studio":"studio-b","status":{"green":{"state":"ON","blink_freq":2},"red":{"state":"blink","blink_freq":4}}}}`

	env, err := DecodeEnvelope([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}

	var status StudioLedStatus
	if err := json.Unmarshal(env.Payload, &status); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if status.Studio != "studio-b" {
		t.Errorf("studio = %q", status.Studio)
	}
	if got := status.Status["green"]; got.State != "ON" || got.BlinkFreq != 2 {
		t.Errorf("green = %+v", got)
	}
	if got := status.Status["red"]; got.State != "blink" || got.BlinkFreq != 4 {
		t.Errorf("red = %+v", got)
	}
}

func TestDecodeEnvelopeUnknownKindKeepsPayload(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"kind":"future.thing","payload":{"whatever":true}}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if env.Kind != "future.thing" {
		t.Errorf("kind = %q", env.Kind)
	}
}

func TestDecodeEnvelopeGarbage(t *testing.T) {
	if _, err := DecodeEnvelope([]byte("not json")); err == nil {
		t.Error("expected error for undecodable frame")
	}
}

func TestSubscribeRequestWireFormat(t *testing.T) {
	data, err := json.Marshal(NewSubscribeRequest("studio-a"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"studio.led.status","studio":"studio-a"}`
	if string(data) != want {
		t.Errorf("wire message = %s, want %s", data, want)
	}
}
