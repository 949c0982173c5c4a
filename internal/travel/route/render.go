package route

import (
	"fmt"
	"strings"
)

// DefaultIndent is one level of staircase indentation.
const DefaultIndent = "  "

const bullet = "• "

// Formatter renders annotated routes as staircase instruction lists.
type Formatter struct {
	// Indent is repeated once per level.
	Indent string
	// StoneNPC is named in Guild Hall stone instructions.
	StoneNPC string
}

// NewFormatter creates a Formatter with the default indent.
func NewFormatter(rules Rules) *Formatter {
	return &Formatter{Indent: DefaultIndent, StoneNPC: rules.StoneNPC}
}

// Render returns one line per hop followed by an arrival line.
//
// The start zone is never rendered as a travel line. Hop i (1-based step
// index) is indented i-1 levels; the arrival line is indented len(r) levels.
//
// Postcondition: Returns "" for an empty route; a single-step route yields
// only the arrival line.
func (f *Formatter) Render(r Route) string {
	if len(r) == 0 {
		return ""
	}

	lines := make([]string, 0, len(r))
	for i := 1; i < len(r); i++ {
		lines = append(lines, strings.Repeat(f.Indent, i-1)+bullet+"Travel to "+r[i].Zone+f.suffix(r[i]))
	}
	lines = append(lines, fmt.Sprintf("%s%sArrived at %s!", strings.Repeat(f.Indent, len(r)), bullet, r.End()))

	return strings.Join(lines, "\n")
}

// Summary returns the header that prefixes a rendered route in the web view.
// The trailing space and the two blank lines are part of the web page text.
func (f *Formatter) Summary(checked int, from, to string) string {
	return fmt.Sprintf("I checked %d different routes. \nThe shortest path from %s to %s has been calculated to be:\n\n\n", checked, from, to)
}

// RenderWithSummary returns Summary followed by Render.
func (f *Formatter) RenderWithSummary(r Route, checked int) string {
	return f.Summary(checked, r.Start(), r.End()) + f.Render(r)
}

func (f *Formatter) suffix(s Step) string {
	switch s.Method.Kind {
	case MethodItem:
		return fmt.Sprintf(" using '%s' (%s).", s.Method.Item, s.Description)
	case MethodStone:
		return fmt.Sprintf(" using '%s'. Give the stone to %s.", s.Method.Stone, f.StoneNPC)
	case MethodDoor:
		return fmt.Sprintf(" via Door %s.", s.Method.Door)
	case MethodMagus:
		return " via Magus."
	default:
		return ""
	}
}
