package view

import "turret-console/internal/live"

// ChannelStats are the aggregate counters the dashboard header shows.
type ChannelStats struct {
	TotalChannels int                        `json:"totalChannels"`
	TurretCount   int                        `json:"turretCount"`
	ActiveCount   int                        `json:"activeCount"`
	ByCategory    map[live.StateCategory]int `json:"byCategory"`
}

// Stats aggregates a channel collection. Pure function; the input is a
// snapshot copy and is not retained.
func Stats(channels []live.Channel) ChannelStats {
	out := ChannelStats{ByCategory: make(map[live.StateCategory]int)}
	turrets := make(map[string]struct{})

	for _, ch := range channels {
		out.TotalChannels++
		turrets[ch.TurretName] = struct{}{}
		if ch.IsActive {
			out.ActiveCount++
		}
		out.ByCategory[live.Classify(ch.State)]++
	}
	out.TurretCount = len(turrets)
	return out
}
