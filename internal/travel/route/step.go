// Package route finds, annotates, and renders shortest travel routes over a
// zone graph.
package route

import "fmt"

// MethodKind identifies how a hop is performed.
type MethodKind int

// Travel method kinds.
const (
	// MethodNone means plain travel through a zone line.
	MethodNone MethodKind = iota
	// MethodItem means clicking a Guild Hall item.
	MethodItem
	// MethodStone means handing a stone to the Guild Hall translocator.
	MethodStone
	// MethodDoor means taking a numbered inn door.
	MethodDoor
	// MethodMagus means using the Magus travel service.
	MethodMagus
)

// String returns a short stable name for the kind.
func (k MethodKind) String() string {
	switch k {
	case MethodNone:
		return "none"
	case MethodItem:
		return "item"
	case MethodStone:
		return "stone"
	case MethodDoor:
		return "door"
	case MethodMagus:
		return "magus"
	default:
		return "unknown"
	}
}

// Method is the structured travel method attached to a step.
// Only the payload field matching Kind is meaningful.
type Method struct {
	Kind  MethodKind
	Item  string
	Stone string
	Door  string
}

// Label returns the display label for the method, or "" for MethodNone.
func (m Method) Label() string {
	switch m.Kind {
	case MethodItem:
		return fmt.Sprintf("Guild Hall Item (%s)", m.Item)
	case MethodStone:
		return fmt.Sprintf("Guild Hall Stone (%s)", m.Stone)
	case MethodDoor:
		return fmt.Sprintf("Laurion Inn Door %s", m.Door)
	case MethodMagus:
		return "Magus"
	default:
		return ""
	}
}

// Step is one zone on a route. The method and description describe how the
// traveler arrives at Zone from the previous step.
type Step struct {
	Zone        string
	Method      Method
	Description string
	Door        string
}

// Route is an ordered list of steps. The first step is the start zone and
// the last is the destination.
type Route []Step

// Zones returns the zone names along the route.
func (r Route) Zones() []string {
	names := make([]string, len(r))
	for i, s := range r {
		names[i] = s.Zone
	}
	return names
}

// Hops returns the number of hops, which is one less than the step count.
func (r Route) Hops() int {
	if len(r) == 0 {
		return 0
	}
	return len(r) - 1
}

// Start returns the first zone, or "" for an empty route.
func (r Route) Start() string {
	if len(r) == 0 {
		return ""
	}
	return r[0].Zone
}

// End returns the last zone, or "" for an empty route.
func (r Route) End() string {
	if len(r) == 0 {
		return ""
	}
	return r[len(r)-1].Zone
}
