package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/zoneroute/internal/travel/zone"
)

// Resolver maps free-text input onto a canonical zone name.
type Resolver interface {
	// Resolve returns the canonical zone name for input, or a *MatchError.
	Resolve(input string) (string, error)
}

// Strategy names a Resolver implementation.
type Strategy string

// Supported strategies.
const (
	StrategyFuzzy  Strategy = "fuzzy"
	StrategyPrefix Strategy = "prefix"
)

// Options configures a Resolver built by New.
type Options struct {
	// Strategy selects the implementation.
	Strategy Strategy
	// AcceptThreshold is the minimum fuzzy score (0–100) for a match.
	AcceptThreshold int
	// SuggestThreshold is the minimum fuzzy score (0–100) for a suggestion.
	SuggestThreshold int
	// MaxSuggestions caps the number of suggestions on NoMatch. Zero disables them.
	MaxSuggestions int
	// ExactWins lets the prefix strategy accept an exact name that also
	// prefixes other names.
	ExactWins bool
}

// New builds the Resolver selected by opts over a graph and its alias index.
//
// Precondition: g and idx must describe the same graph snapshot.
// Postcondition: Returns a Resolver or an error for an unknown strategy.
func New(g *zone.Graph, idx *AliasIndex, opts Options) (Resolver, error) {
	switch opts.Strategy {
	case StrategyFuzzy:
		return &FuzzyResolver{
			Index:            idx,
			AcceptThreshold:  opts.AcceptThreshold,
			SuggestThreshold: opts.SuggestThreshold,
			MaxSuggestions:   opts.MaxSuggestions,
		}, nil
	case StrategyPrefix:
		return &PrefixResolver{Names: g.Names(), ExactWins: opts.ExactWins}, nil
	default:
		return nil, fmt.Errorf("unknown resolver strategy %q", opts.Strategy)
	}
}

// FuzzyResolver scores input against every alias and accepts the best one
// when its score reaches AcceptThreshold.
type FuzzyResolver struct {
	Index            *AliasIndex
	AcceptThreshold  int
	SuggestThreshold int
	MaxSuggestions   int
}

// scored pairs an alias with its similarity score.
type scored struct {
	alias string
	score float64
}

// Resolve implements Resolver.
//
// Ties on the best score go to the lexically smallest alias.
func (r *FuzzyResolver) Resolve(input string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(input))
	if query == "" {
		return "", emptyInput(input)
	}

	ranked := make([]scored, 0, r.Index.Len())
	for _, alias := range r.Index.Aliases() {
		ranked = append(ranked, scored{alias: alias, score: Ratio(query, alias)})
	}
	// Aliases are already sorted, so a stable sort keeps ties alphabetical.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > 0 && ranked[0].score >= float64(r.AcceptThreshold) {
		name, _ := r.Index.Lookup(ranked[0].alias)
		return name, nil
	}

	var suggestions []string
	for _, s := range ranked {
		if len(suggestions) >= r.MaxSuggestions || s.score < float64(r.SuggestThreshold) {
			break
		}
		name, _ := r.Index.Lookup(s.alias)
		suggestions = append(suggestions, name)
	}

	return "", &MatchError{Input: strings.TrimSpace(input), Kind: ErrNoMatch, Candidates: suggestions}
}

// PrefixResolver accepts input that is a case-insensitive prefix of exactly
// one canonical name. Several prefixed names are ambiguous, including when
// one of them equals the input, unless ExactWins is set.
type PrefixResolver struct {
	// Names are the canonical zone names, in the order candidates are reported.
	Names []string
	// ExactWins resolves an input equal to a canonical name (ignoring case)
	// to that name even when it also prefixes other names.
	ExactWins bool
}

// Resolve implements Resolver.
func (r *PrefixResolver) Resolve(input string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(input))
	if query == "" {
		return "", emptyInput(input)
	}

	var matches []string
	for _, name := range r.Names {
		lower := strings.ToLower(name)
		if r.ExactWins && lower == query {
			return name, nil
		}
		if strings.HasPrefix(lower, query) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", &MatchError{Input: strings.TrimSpace(input), Kind: ErrNoMatch}
	case 1:
		return matches[0], nil
	default:
		return "", &MatchError{Input: strings.TrimSpace(input), Kind: ErrAmbiguous, Candidates: matches}
	}
}
