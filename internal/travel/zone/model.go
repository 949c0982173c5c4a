// Package zone provides the travel graph model: zones, their directed
// connections, and the immutable Graph built from raw zone data.
package zone

// Direction controls whether a connection may be used to leave its owning zone.
type Direction string

// Connection directions as they appear in zone data.
const (
	Entrance Direction = "entrance"
	Exit     Direction = "exit"
	Both     Direction = "both"
)

// Directions contains every known connection direction.
var Directions = []Direction{Entrance, Exit, Both}

// IsKnown reports whether d is one of the three known directions.
func (d Direction) IsKnown() bool {
	for _, kd := range Directions {
		if d == kd {
			return true
		}
	}
	return false
}

// Outbound reports whether travel away from the owning zone is permitted.
//
// Postcondition: Returns true only for Exit and Both.
func (d Direction) Outbound() bool {
	return d == Exit || d == Both
}

// Connection is a directed edge from the owning zone to Target.
//
// Item, Stone, Door, and Method are independent optional fields describing how
// a traveler performs the hop. Empty means absent.
type Connection struct {
	// Target is the canonical name of the destination zone.
	Target string
	// Direction controls traversability from the owning zone.
	Direction Direction
	// Method tags a travel service (e.g. "Magus").
	Method string
	// Item names a clickable Guild Hall item.
	Item string
	// Stone names a Guild Hall translocation stone.
	Stone string
	// Door identifies a numbered door.
	Door string
	// Description is flavor text for the hop.
	Description string
}

// Traversable reports whether the connection may be followed outbound.
func (c Connection) Traversable() bool {
	return c.Direction.Outbound()
}

// Zone is a named node in the travel graph.
type Zone struct {
	// Name is the unique, case-sensitive canonical display name.
	Name string
	// Connections lists outgoing edges in data order.
	Connections []Connection
	// Placeholder is true when the zone was synthesized because a connection
	// referenced it but the raw data did not define it.
	Placeholder bool
}

// ConnectionTo returns the first connection targeting name, if any.
//
// Postcondition: Returns (connection, true) if found, or (Connection{}, false) otherwise.
func (z *Zone) ConnectionTo(name string) (Connection, bool) {
	for _, c := range z.Connections {
		if c.Target == name {
			return c, true
		}
	}
	return Connection{}, false
}

// OutboundConnections returns all traversable connections from this zone.
func (z *Zone) OutboundConnections() []Connection {
	var out []Connection
	for _, c := range z.Connections {
		if c.Traversable() {
			out = append(out, c)
		}
	}
	return out
}
