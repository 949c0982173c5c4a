// Package resolve maps free-text zone names onto canonical zone names.
//
// Two strategies are provided behind the Resolver interface: FuzzyResolver
// scores the input against lowercase base-name aliases and accepts the best
// match above a threshold; PrefixResolver accepts a unique case-insensitive
// prefix match over canonical names.
package resolve

import (
	"sort"
	"strings"

	"github.com/cory-johannsen/zoneroute/internal/travel/zone"
)

// BaseName returns the lowercase alias for a canonical zone name: the text
// before the first comma, trimmed.
func BaseName(name string) string {
	base, _, _ := strings.Cut(name, ",")
	return strings.ToLower(strings.TrimSpace(base))
}

// Collision records two or more zones sharing a base name.
type Collision struct {
	// Alias is the shared base name.
	Alias string
	// Winner is the canonical name the alias maps to.
	Winner string
	// Losers are the other canonical names that share the alias.
	Losers []string
}

// AliasIndex maps lowercase base names to canonical zone names.
// It is immutable after construction and safe for concurrent reads.
type AliasIndex struct {
	aliases    map[string]string
	keys       []string
	collisions []Collision
}

// BuildAliasIndex indexes every zone in g by its base name.
//
// Collisions are resolved deterministically: a zone whose full name equals
// its base name (no comma qualifier) wins; otherwise the lexically first
// canonical name wins. Every collision is recorded.
//
// Postcondition: Lookup(BaseName(n)) succeeds for every n in g.Names().
func BuildAliasIndex(g *zone.Graph) *AliasIndex {
	groups := make(map[string][]string)
	for _, name := range g.Names() {
		alias := BaseName(name)
		groups[alias] = append(groups[alias], name)
	}

	idx := &AliasIndex{
		aliases: make(map[string]string, len(groups)),
		keys:    make([]string, 0, len(groups)),
	}

	for alias, names := range groups {
		// names arrive sorted because g.Names() is sorted.
		winner := names[0]
		for _, n := range names {
			if strings.ToLower(strings.TrimSpace(n)) == alias {
				winner = n
				break
			}
		}
		idx.aliases[alias] = winner
		idx.keys = append(idx.keys, alias)

		if len(names) > 1 {
			c := Collision{Alias: alias, Winner: winner}
			for _, n := range names {
				if n != winner {
					c.Losers = append(c.Losers, n)
				}
			}
			idx.collisions = append(idx.collisions, c)
		}
	}

	sort.Strings(idx.keys)
	sort.Slice(idx.collisions, func(i, j int) bool {
		return idx.collisions[i].Alias < idx.collisions[j].Alias
	})

	return idx
}

// Lookup returns the canonical name for an exact alias.
func (idx *AliasIndex) Lookup(alias string) (string, bool) {
	name, ok := idx.aliases[alias]
	return name, ok
}

// Aliases returns all alias keys in sorted order. The slice must not be modified.
func (idx *AliasIndex) Aliases() []string {
	return idx.keys
}

// Collisions returns every alias shared by more than one zone.
func (idx *AliasIndex) Collisions() []Collision {
	return idx.collisions
}

// Len returns the number of aliases.
func (idx *AliasIndex) Len() int {
	return len(idx.keys)
}
