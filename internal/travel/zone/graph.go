package zone

import "sort"

// Graph is an immutable, total travel graph: every connection target is a key.
// A Graph is safe for concurrent reads.
type Graph struct {
	zones        map[string]*Zone
	names        []string
	placeholders []string
}

// Build constructs a Graph from raw zone data keyed by zone name.
//
// Every target referenced by a connection but absent from raw is synthesized
// as a placeholder zone with no connections. Build never fails; the input map
// and slices are copied, so later changes to raw do not affect the Graph.
//
// Postcondition: For every zone z and connection c in the result, g.Has(c.Target) is true.
func Build(raw map[string][]Connection) *Graph {
	g := &Graph{
		zones: make(map[string]*Zone, len(raw)),
	}

	for name, conns := range raw {
		copied := make([]Connection, len(conns))
		copy(copied, conns)
		g.zones[name] = &Zone{Name: name, Connections: copied}
	}

	for _, conns := range raw {
		for _, c := range conns {
			if _, ok := g.zones[c.Target]; ok {
				continue
			}
			g.zones[c.Target] = &Zone{Name: c.Target, Placeholder: true}
			g.placeholders = append(g.placeholders, c.Target)
		}
	}

	g.names = make([]string, 0, len(g.zones))
	for name := range g.zones {
		g.names = append(g.names, name)
	}
	sort.Strings(g.names)
	sort.Strings(g.placeholders)

	return g
}

// Zone returns the zone with the given canonical name.
//
// Postcondition: Returns (zone, true) if found, or (nil, false) otherwise.
func (g *Graph) Zone(name string) (*Zone, bool) {
	z, ok := g.zones[name]
	return z, ok
}

// Has reports whether name is a zone in the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.zones[name]
	return ok
}

// Connections returns the outgoing connections of name, or nil for unknown zones.
func (g *Graph) Connections(name string) []Connection {
	if z, ok := g.zones[name]; ok {
		return z.Connections
	}
	return nil
}

// Names returns all zone names in sorted order. The slice must not be modified.
func (g *Graph) Names() []string {
	return g.names
}

// Placeholders returns the sorted names of zones synthesized during Build.
func (g *Graph) Placeholders() []string {
	return g.placeholders
}

// Len returns the number of zones, placeholders included.
func (g *Graph) Len() int {
	return len(g.zones)
}
