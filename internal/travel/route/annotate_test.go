package route

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/zoneroute/internal/travel/zone"
)

func travelGraph() *zone.Graph {
	return zone.Build(map[string][]zone.Connection{
		"Guild Lobby": {
			{Target: "Guild Hall", Direction: zone.Both},
			{Target: "Plane of Knowledge", Direction: zone.Both},
		},
		"Guild Hall": {
			{Target: "Guild Lobby", Direction: zone.Both},
			{Target: "The Overthere", Direction: zone.Exit, Item: "Overthere Totem", Description: "Near the back wall"},
			{Target: "Skyfire Mountains", Direction: zone.Exit, Stone: "Skyfire Stone"},
			{Target: "Butcherblock Mountains", Direction: zone.Exit, Item: "Butcherblock Banner"},
			{Target: "Dreadlands", Direction: zone.Exit, Item: "Dreadlands Crystal", Method: "Magus"},
		},
		"The Overthere": {
			{Target: "Laurion Inn", Direction: zone.Exit, Method: "Magus"},
		},
		"Laurion Inn": {
			{Target: "Hodstock Hills", Direction: zone.Exit, Door: "3", Description: "Upstairs"},
		},
		"Hodstock Hills": {
			{Target: "Skyfire Mountains", Direction: zone.Exit, Stone: "Ignored Away From Hall"},
		},
	})
}

func bare(names ...string) Route {
	r := make(Route, len(names))
	for i, n := range names {
		r[i] = Step{Zone: n}
	}
	return r
}

func TestAnnotate_GuildHallItem(t *testing.T) {
	a := NewAnnotator(DefaultRules())
	r := a.Annotate(travelGraph(), bare("Guild Hall", "The Overthere"))
	require.Len(t, r, 2)
	assert.Equal(t, MethodNone, r[0].Method.Kind)
	assert.Equal(t, Method{Kind: MethodItem, Item: "Overthere Totem"}, r[1].Method)
	assert.Equal(t, "Near the back wall", r[1].Description)
	assert.Equal(t, "Guild Hall Item (Overthere Totem)", r[1].Method.Label())
}

func TestAnnotate_MissingDescriptionFallback(t *testing.T) {
	a := NewAnnotator(DefaultRules())
	r := a.Annotate(travelGraph(), bare("Guild Hall", "Butcherblock Mountains"))
	assert.Equal(t, "Description not found", r[1].Description)
}

func TestAnnotate_GuildHallStone(t *testing.T) {
	a := NewAnnotator(DefaultRules())
	r := a.Annotate(travelGraph(), bare("Guild Hall", "Skyfire Mountains"))
	assert.Equal(t, Method{Kind: MethodStone, Stone: "Skyfire Stone"}, r[1].Method)
	assert.Equal(t, "Description not found", r[1].Description)
	assert.Equal(t, "Guild Hall Stone (Skyfire Stone)", r[1].Method.Label())
}

func TestAnnotate_StoneOnlyAtGuildHall(t *testing.T) {
	a := NewAnnotator(DefaultRules())
	r := a.Annotate(travelGraph(), bare("Hodstock Hills", "Skyfire Mountains"))
	assert.Equal(t, MethodNone, r[1].Method.Kind)
	assert.Empty(t, r[1].Description)
}

func TestAnnotate_MagusOverridesItem(t *testing.T) {
	a := NewAnnotator(DefaultRules())
	r := a.Annotate(travelGraph(), bare("Guild Hall", "Dreadlands"))
	assert.Equal(t, MethodMagus, r[1].Method.Kind)
	assert.Equal(t, "Travel via Magus.", r[1].Description)
	assert.Equal(t, "Magus", r[1].Method.Label())
}

func TestAnnotate_InnDoor(t *testing.T) {
	a := NewAnnotator(DefaultRules())
	r := a.Annotate(travelGraph(), bare("Laurion Inn", "Hodstock Hills"))
	assert.Equal(t, Method{Kind: MethodDoor, Door: "3"}, r[1].Method)
	assert.Equal(t, "3", r[1].Door)
	assert.Empty(t, r[1].Description, "door hops leave the description untouched")
	assert.Equal(t, "Laurion Inn Door 3", r[1].Method.Label())
}

func TestAnnotate_NoMatchingConnection(t *testing.T) {
	a := NewAnnotator(DefaultRules())
	r := a.Annotate(travelGraph(), bare("Guild Hall", "Nowhere", "Unknown Zone"))
	require.Len(t, r, 3)
	for _, s := range r {
		assert.Equal(t, MethodNone, s.Method.Kind)
	}
}

func TestAnnotate_DoesNotMutateInput(t *testing.T) {
	a := NewAnnotator(DefaultRules())
	in := bare("Guild Hall", "The Overthere")
	_ = a.Annotate(travelGraph(), in)
	assert.Equal(t, MethodNone, in[1].Method.Kind)
}

func TestMethodKind_String(t *testing.T) {
	assert.Equal(t, "none", MethodNone.String())
	assert.Equal(t, "item", MethodItem.String())
	assert.Equal(t, "stone", MethodStone.String())
	assert.Equal(t, "door", MethodDoor.String())
	assert.Equal(t, "magus", MethodMagus.String())
	assert.Equal(t, "unknown", MethodKind(99).String())
	assert.Empty(t, Method{}.Label())
}

func TestRender_SingleStep(t *testing.T) {
	f := NewFormatter(DefaultRules())
	out := f.Render(bare("Guild Hall"))
	assert.Equal(t, "  • Arrived at Guild Hall!", out)
	assert.NotContains(t, out, "Travel to")
}

func TestRender_Empty(t *testing.T) {
	assert.Empty(t, NewFormatter(DefaultRules()).Render(nil))
}

func TestRender_Staircase(t *testing.T) {
	r := Route{
		{Zone: "Guild Hall"},
		{Zone: "The Overthere", Method: Method{Kind: MethodItem, Item: "Overthere Totem"}, Description: "Near the back wall"},
		{Zone: "Laurion Inn", Method: Method{Kind: MethodMagus}, Description: "Travel via Magus."},
		{Zone: "Hodstock Hills", Method: Method{Kind: MethodDoor, Door: "3"}, Door: "3"},
		{Zone: "Skyfire Mountains", Method: Method{Kind: MethodStone, Stone: "Skyfire Stone"}},
		{Zone: "Burning Woods"},
	}
	want := strings.Join([]string{
		"• Travel to The Overthere using 'Overthere Totem' (Near the back wall).",
		"  • Travel to Laurion Inn via Magus.",
		"    • Travel to Hodstock Hills via Door 3.",
		"      • Travel to Skyfire Mountains using 'Skyfire Stone'. Give the stone to Zeflmin Werlikanin.",
		"        • Travel to Burning Woods",
		// Arrival sits len(route) levels deep, two past the last hop, as the
		// web app has always printed it.
		"            • Arrived at Burning Woods!",
	}, "\n")
	assert.Equal(t, want, NewFormatter(DefaultRules()).Render(r))
}

func TestRender_WithSummary(t *testing.T) {
	f := NewFormatter(DefaultRules())
	out := f.RenderWithSummary(bare("A", "B"), 4)
	assert.Equal(t, "I checked 4 different routes. \nThe shortest path from A to B has been calculated to be:\n\n\n", f.Summary(4, "A", "B"))
	assert.True(t, strings.HasPrefix(out, f.Summary(4, "A", "B")+"• Travel to B"))
	assert.True(t, strings.HasSuffix(out, "• Travel to B\n    • Arrived at B!"))
}

func TestAnnotateThenRender_EndToEnd(t *testing.T) {
	g := travelGraph()
	rules := DefaultRules()
	r, _, err := NewFinder(rules).Search(g, "Guild Lobby", "Hodstock Hills")
	require.NoError(t, err)
	assert.Equal(t, []string{"Guild Lobby", "Guild Hall", "The Overthere", "Laurion Inn", "Hodstock Hills"}, r.Zones())

	out := NewFormatter(rules).Render(NewAnnotator(rules).Annotate(g, r))
	assert.Contains(t, out, "• Travel to Guild Hall\n")
	assert.Contains(t, out, "using 'Overthere Totem' (Near the back wall).")
	assert.Contains(t, out, "Laurion Inn via Magus.")
	assert.Contains(t, out, "Hodstock Hills via Door 3.")
	assert.True(t, strings.HasSuffix(out, "          • Arrived at Hodstock Hills!"))
}
