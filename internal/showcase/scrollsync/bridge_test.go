package scrollsync

import (
	"encoding/json"
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/jewelbox/internal/showcase/rotation"
)

func TestParseAccepted(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    float64
	}{
		{"raw bytes", []byte(`{"type":"scrollProgress","value":0.25}`), 0.25},
		{"string", `{"type":"scrollProgress","value":1}`, 1},
		{"raw message", json.RawMessage(`{"value":0.5,"type":"scrollProgress","extra":true}`), 0.5},
		{"map", map[string]any{"type": "scrollProgress", "value": 0.75}, 0.75},
		{"map int", map[string]any{"type": "scrollProgress", "value": 2}, 2},
		{"map json number", map[string]any{"type": "scrollProgress", "value": json.Number("0.125")}, 0.125},
		{"typed", Message{Type: MessageType, Value: -0.5}, -0.5},
		{"typed pointer", &Message{Type: MessageType, Value: 0.1}, 0.1},
		{"out of range", `{"type":"scrollProgress","value":7.5}`, 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.payload)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejected(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{"wrong type", `{"type":"scroll","value":0.5}`},
		{"missing type", `{"value":0.5}`},
		{"missing value", `{"type":"scrollProgress"}`},
		{"null value", `{"type":"scrollProgress","value":null}`},
		{"string value", `{"type":"scrollProgress","value":"0.5"}`},
		{"bool value", `{"type":"scrollProgress","value":true}`},
		{"array payload", `[1,2,3]`},
		{"not json", `scrollProgress=0.5`},
		{"empty", ``},
		{"nil", nil},
		{"nil typed pointer", (*Message)(nil)},
		{"number payload", 0.5},
		{"typed wrong type", Message{Type: "other", Value: 0.5}},
		{"typed NaN", Message{Type: MessageType, Value: gomath.NaN()}},
		{"typed Inf", Message{Type: MessageType, Value: gomath.Inf(1)}},
		{"map non-string type", map[string]any{"type": 1, "value": 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Parse(tt.payload)
			assert.False(t, ok)
		})
	}
}

func TestBridgeContinuity(t *testing.T) {
	state := &rotation.State{}
	for i := 0; i < 100; i++ {
		state.AdvanceIdle(0.002)
	}
	idleAtCapture := state.IdleAngle

	b := New(state, nil)
	b.OnScrollMessage(`{"type":"scrollProgress","value":0.25}`)

	require.True(t, b.Captured())
	assert.Equal(t, idleAtCapture, state.CapturedOffset)
	assert.InDelta(t, 0.25*2*gomath.Pi+idleAtCapture, state.ScrollAngle, 1e-12)
	// The idle contribution is kept, not only the progress mapping.
	assert.InDelta(t, 0.25*2*gomath.Pi+2*idleAtCapture, state.Composed(), 1e-12)
	assert.Equal(t, Stats{Accepted: 1}, b.Stats())
}

func TestBridgeIgnoresMalformed(t *testing.T) {
	state := &rotation.State{IdleAngle: 0.3}
	b := New(state, nil)
	b.OnScrollMessage(`{"type":"scrollProgress","value":0.1}`)
	before := *state

	for _, p := range []any{
		`{"type":"scrollProgress"}`,
		`{"type":"scrollProgress","value":"x"}`,
		`{"type":"resize","value":0.9}`,
		[]byte(`{`),
		42,
	} {
		b.OnScrollMessage(p)
	}

	assert.Equal(t, before, *state, "rotation state must be unchanged")
	assert.Equal(t, Stats{Accepted: 1, Ignored: 5}, b.Stats())
}

func TestBridgeMalformedBeforeCapture(t *testing.T) {
	state := &rotation.State{IdleAngle: 0.3}
	b := New(state, nil)

	b.OnScrollMessage(`{"type":"scrollProgress","value":"0.5"}`)
	assert.False(t, b.Captured(), "a rejected message must not trigger capture")
	assert.Equal(t, rotation.State{IdleAngle: 0.3}, *state)
}

func TestBridgeReset(t *testing.T) {
	state := &rotation.State{IdleAngle: 0.2}
	b := New(state, nil)
	b.OnScrollMessage(Message{Type: MessageType, Value: 0.5})
	b.Reset()

	assert.False(t, b.Captured())
	state.AdvanceIdle(0.1)
	b.OnScrollMessage(Message{Type: MessageType, Value: 0})
	assert.InDelta(t, 0.3, state.CapturedOffset, 1e-12)
}
