package route

// Rules names the zones and tags that get special treatment during search,
// annotation, and rendering.
type Rules struct {
	// Hub is the zone whose exits to HubPriority zones jump the search queue.
	Hub string
	// HubPriority lists the zones reached from Hub ahead of everything else.
	HubPriority []string
	// GuildHall is the zone whose connections carry items and stones.
	GuildHall string
	// StoneNPC is the translocator who accepts Guild Hall stones.
	StoneNPC string
	// Inn is the zone whose connections are numbered doors.
	Inn string
	// MagusTag is the connection method value for the Magus service.
	MagusTag string
}

// DefaultRules returns the rules for the stock zone data.
func DefaultRules() Rules {
	return Rules{
		Hub:         "Guild Lobby",
		HubPriority: []string{"Guild Hall", "Plane of Knowledge"},
		GuildHall:   "Guild Hall",
		StoneNPC:    "Zeflmin Werlikanin",
		Inn:         "Laurion Inn",
		MagusTag:    "Magus",
	}
}

// isHubPriority reports whether target is one of the hub's priority exits.
func (r Rules) isHubPriority(target string) bool {
	for _, p := range r.HubPriority {
		if p == target {
			return true
		}
	}
	return false
}
