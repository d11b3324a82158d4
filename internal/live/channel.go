package live

import "time"

// Channel is the canonical live-state record for one line on one turret.
// The reconciler owns exactly one Channel per identity key; views read
// immutable copies.
type Channel struct {
	TurretName  string    `json:"turretName"`
	PartyNo     string    `json:"partyNo"`
	LineNo      string    `json:"lineNo"`
	DeviceName  string    `json:"deviceName"`
	CallID      string    `json:"callId"`
	State       string    `json:"state"`
	IP          string    `json:"ip,omitempty"`
	IsActive    bool      `json:"isActive"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Key returns the channel's identity: turret name plus line identifier.
// The stream carries no stable database id, so this composite is the only
// way to address one physical line.
func (c Channel) Key() string {
	return ChannelKey(c.TurretName, c.LineNo)
}

func ChannelKey(turret, line string) string {
	return turret + "-" + line
}

// StateCategory is the coarse classification of a channel state token.
type StateCategory string

const (
	CategoryActive       StateCategory = "active"
	CategoryRinging      StateCategory = "ringing"
	CategoryHold         StateCategory = "hold"
	CategoryIdle         StateCategory = "idle"
	CategoryDisconnected StateCategory = "disconnected"
	CategoryError        StateCategory = "error"
	CategoryUnknown      StateCategory = "unknown"
)

// stateCategories is the total mapping from the state tokens the turret
// firmware is known to emit. Anything else classifies as unknown; the
// state string itself is open-ended.
var stateCategories = map[string]StateCategory{
	"Conversation": CategoryActive,
	"Connected":    CategoryActive,
	"Ringing":      CategoryRinging,
	"CommonHold":   CategoryHold,
	"PrivateHold":  CategoryHold,
	"Hold":         CategoryHold,
	"Idle":         CategoryIdle,
	"Disconnected": CategoryDisconnected,
	"Released":     CategoryDisconnected,
	"Error":        CategoryError,
	"Fault":        CategoryError,
}

// Classify maps a state token to its coarse category. It is a pure
// function of the token and never fails.
func Classify(state string) StateCategory {
	if cat, ok := stateCategories[state]; ok {
		return cat
	}
	return CategoryUnknown
}

// IsActiveState reports whether a state token counts as a live call:
// conversation or ringing-equivalent categories only.
func IsActiveState(state string) bool {
	switch Classify(state) {
	case CategoryActive, CategoryRinging:
		return true
	default:
		return false
	}
}
