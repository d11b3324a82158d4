package stream

import "encoding/json"

// envelope is the outer shape of a broker frame. The notifier wraps most
// payloads in a JSON envelope whose "content" field is itself a JSON
// *string* that must be parsed a second time. This double-parse is a
// protocol quirk of the upstream system and is preserved exactly.
type envelope struct {
	TurretName string          `json:"turretName"`
	Content    json.RawMessage `json:"content"`
	Payload    json.RawMessage `json:"payload"`
}

// Decode converts one raw frame body into an Event. It never fails:
// a body that is not valid JSON yields an error-marker Event carrying
// the original text.
//
// Resolution order:
//  1. envelope with a nested "content" string: parse the nested string;
//     if the nested parse fails, wrap it as {raw: <string>}.
//  2. envelope with a "payload" object: use the payload.
//  3. the envelope itself.
func Decode(body []byte) Event {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{Err: err.Error(), Raw: string(body)}
	}

	ev, ok := decodeEnvelope(env, body)
	if !ok {
		return Event{Err: "frame is not an update envelope", Raw: string(body)}
	}

	// Some turrets only stamp the envelope, not the payload.
	if ev.TurretName == "" {
		ev.TurretName = env.TurretName
	}
	return ev
}

func decodeEnvelope(env envelope, body []byte) (Event, bool) {
	if isJSONString(env.Content) {
		var nested string
		if err := json.Unmarshal(env.Content, &nested); err != nil {
			return Event{}, false
		}
		var ev Event
		if err := json.Unmarshal([]byte(nested), &ev); err != nil {
			return Event{Raw: nested}, true
		}
		return ev, true
	}

	if len(env.Payload) > 0 {
		var ev Event
		if err := json.Unmarshal(env.Payload, &ev); err == nil {
			return ev, true
		}
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, false
	}
	return ev, true
}

func isJSONString(raw json.RawMessage) bool {
	return len(raw) > 0 && raw[0] == '"'
}
