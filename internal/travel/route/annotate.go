package route

import "github.com/cory-johannsen/zoneroute/internal/travel/zone"

const (
	missingDescription = "Description not found"
	magusDescription   = "Travel via Magus."
)

// Annotator attaches travel methods and descriptions to route steps.
type Annotator struct {
	Rules Rules
}

// NewAnnotator creates an Annotator using the given rules.
func NewAnnotator(rules Rules) *Annotator {
	return &Annotator{Rules: rules}
}

// Annotate returns a copy of r where each step after the first carries the
// method used to reach it from the previous step.
//
// For each hop the first connection from the current zone to the next zone is
// consulted. Guild Hall items take precedence over stones; a Magus tag then
// overrides either; an inn door is applied last. A hop without a matching
// connection is left bare.
//
// Postcondition: len(result) == len(r); zone names are unchanged.
func (a *Annotator) Annotate(g *zone.Graph, r Route) Route {
	out := make(Route, len(r))
	copy(out, r)

	for i := 0; i+1 < len(out); i++ {
		current := out[i].Zone
		z, ok := g.Zone(current)
		if !ok {
			continue
		}
		c, ok := z.ConnectionTo(out[i+1].Zone)
		if !ok {
			continue
		}
		a.apply(current, c, &out[i+1])
	}

	return out
}

func (a *Annotator) apply(current string, c zone.Connection, step *Step) {
	atGuildHall := current == a.Rules.GuildHall
	switch {
	case atGuildHall && c.Item != "":
		step.Method = Method{Kind: MethodItem, Item: c.Item}
		step.Description = describe(c)
	case atGuildHall && c.Stone != "":
		step.Method = Method{Kind: MethodStone, Stone: c.Stone}
		step.Description = describe(c)
	}

	if a.Rules.MagusTag != "" && c.Method == a.Rules.MagusTag {
		step.Method = Method{Kind: MethodMagus}
		step.Description = magusDescription
	}

	if current == a.Rules.Inn && c.Door != "" {
		step.Method = Method{Kind: MethodDoor, Door: c.Door}
		step.Door = c.Door
	}
}

func describe(c zone.Connection) string {
	if c.Description == "" {
		return missingDescription
	}
	return c.Description
}
