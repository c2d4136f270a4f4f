package scrollsync

import (
	"encoding/json"
	gomath "math"
)

// MessageType is the only message type the bridge reacts to.
const MessageType = "scrollProgress"

// Message is the typed form of a scroll progress notification.
type Message struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Parse extracts the progress value from payload. It accepts a Message,
// raw JSON ([]byte, string, json.RawMessage) or an already decoded object
// (map[string]any). ok is false for anything that is not a scrollProgress
// message with a finite numeric value.
func Parse(payload any) (value float64, ok bool) {
	switch p := payload.(type) {
	case Message:
		return p.Value, p.Type == MessageType && finite(p.Value)
	case *Message:
		if p == nil {
			return 0, false
		}
		return Parse(*p)
	case []byte:
		return parseJSON(p)
	case json.RawMessage:
		return parseJSON(p)
	case string:
		return parseJSON([]byte(p))
	case map[string]any:
		return parseObject(p)
	default:
		return 0, false
	}
}

func parseJSON(data []byte) (float64, bool) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return 0, false
	}
	return parseObject(obj)
}

func parseObject(obj map[string]any) (float64, bool) {
	if typ, _ := obj["type"].(string); typ != MessageType {
		return 0, false
	}
	v, ok := number(obj["value"])
	if !ok || !finite(v) {
		return 0, false
	}
	return v, true
}

// number accepts the numeric shapes a decoded payload can carry. Strings
// are rejected even when they look numeric.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func finite(v float64) bool {
	return !gomath.IsNaN(v) && !gomath.IsInf(v, 0)
}
