package stream

// Event is one decoded update from the broker. Any field may be absent:
// the upstream notifier populates whichever fields the turret reported,
// and older firmware uses the short alias names (partyNo, lineNo,
// deviceName) instead of the long ones.
type Event struct {
	TurretName  string `json:"turretName,omitempty"`
	PartyNumber string `json:"partyNumber,omitempty"`
	PartyNo     string `json:"partyNo,omitempty"`
	LineName    string `json:"lineName,omitempty"`
	LineNo      string `json:"lineNo,omitempty"`
	SystemName  string `json:"systemName,omitempty"`
	DeviceName  string `json:"deviceName,omitempty"`
	CallID      string `json:"callId,omitempty"`
	State       string `json:"state,omitempty"`
	IP          string `json:"ip,omitempty"`

	// Raw carries the original nested content when it was not valid JSON.
	Raw string `json:"raw,omitempty"`

	// Err marks a frame whose body could not be decoded at all. Such
	// events are still logged and counted, never dropped.
	Err string `json:"error,omitempty"`
}

// Party returns the party number, preferring the long field name.
func (e Event) Party() string {
	if e.PartyNumber != "" {
		return e.PartyNumber
	}
	return e.PartyNo
}

// Line returns the line identifier, preferring the explicit line name.
func (e Event) Line() string {
	if e.LineName != "" {
		return e.LineName
	}
	return e.LineNo
}

// Device returns the device name, preferring the system name variant.
func (e Event) Device() string {
	if e.SystemName != "" {
		return e.SystemName
	}
	return e.DeviceName
}

// Malformed reports whether this event is a decode-failure marker.
func (e Event) Malformed() bool {
	return e.Err != ""
}
