package route

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/list"
	"github.com/zyedidia/generic/mapset"

	"github.com/cory-johannsen/zoneroute/internal/travel/zone"
)

// ErrNoPath is the failure kind for a search that exhausts the graph.
var ErrNoPath = errors.New("no path found")

// NoPathError reports an exhausted search. Checked is the number of queue
// entries examined before giving up.
type NoPathError struct {
	From    string
	To      string
	Checked int
}

// Error returns the user-facing message.
func (e *NoPathError) Error() string {
	return fmt.Sprintf("No path found from %s to %s!", e.From, e.To)
}

// Unwrap returns ErrNoPath.
func (e *NoPathError) Unwrap() error {
	return ErrNoPath
}

// frontier is a queued zone with a back pointer to the entry that queued it.
type frontier struct {
	zone string
	prev *frontier
}

// route rebuilds the path from the search start to f as bare steps.
func (f *frontier) route() Route {
	depth := 0
	for n := f; n != nil; n = n.prev {
		depth++
	}
	r := make(Route, depth)
	for n := f; n != nil; n = n.prev {
		depth--
		r[depth] = Step{Zone: n.zone}
	}
	return r
}

// Finder runs breadth-first route searches.
type Finder struct {
	Rules Rules
}

// NewFinder creates a Finder using the given rules.
func NewFinder(rules Rules) *Finder {
	return &Finder{Rules: rules}
}

// Search finds a route with the fewest hops from start to end, following only
// exit and both connections.
//
// At the hub zone, connections to hub priority zones are pushed to the front
// of the queue regardless of direction, so they are explored before anything
// else already queued. Every dequeue counts toward checked, including entries
// skipped because their zone was already visited.
//
// Precondition: g must be non-nil.
// Postcondition: Returns (route, checked, nil) with route[0] == start and the
// last step == end, or (nil, checked, *NoPathError) if end is unreachable.
func (f *Finder) Search(g *zone.Graph, start, end string) (Route, int, error) {
	queue := list.New[*frontier]()
	queue.PushBack(&frontier{zone: start})
	visited := mapset.New[string]()
	checked := 0

	for queue.Front != nil {
		node := queue.Front
		queue.Remove(node)
		current := node.Value
		checked++

		if visited.Has(current.zone) {
			continue
		}
		visited.Put(current.zone)

		if current.zone == end {
			return current.route(), checked, nil
		}

		atHub := current.zone == f.Rules.Hub
		for _, c := range g.Connections(current.zone) {
			next := &frontier{zone: c.Target, prev: current}
			switch {
			case atHub && f.Rules.isHubPriority(c.Target):
				queue.PushFront(next)
			case c.Traversable() && !visited.Has(c.Target):
				queue.PushBack(next)
			}
		}
	}

	return nil, checked, &NoPathError{From: start, To: end, Checked: checked}
}
