package lookup

import (
	"github.com/cory-johannsen/zoneroute/internal/config"
	"github.com/cory-johannsen/zoneroute/internal/travel/resolve"
	"github.com/cory-johannsen/zoneroute/internal/travel/route"
)

// RulesFromConfig converts the routing section into search and annotation rules.
func RulesFromConfig(c config.RoutingConfig) route.Rules {
	return route.Rules{
		Hub:         c.Hub,
		HubPriority: append([]string(nil), c.HubPriority...),
		GuildHall:   c.GuildHall,
		StoneNPC:    c.StoneNPC,
		Inn:         c.Inn,
		MagusTag:    c.MagusTag,
	}
}

// ResolverFromConfig converts a resolver section into resolve.Options.
func ResolverFromConfig(c config.ResolverConfig) resolve.Options {
	return resolve.Options{
		Strategy:         resolve.Strategy(c.Strategy),
		AcceptThreshold:  c.AcceptThreshold,
		SuggestThreshold: c.SuggestThreshold,
		MaxSuggestions:   c.MaxSuggestions,
		ExactWins:        c.ExactWins,
	}
}

// OptionsFromConfig builds planner options for one front end.
func OptionsFromConfig(frontend string, summary bool, resolver config.ResolverConfig, routing config.RoutingConfig) Options {
	return Options{
		Frontend:      frontend,
		Resolver:      ResolverFromConfig(resolver),
		Rules:         RulesFromConfig(routing),
		Indent:        routing.Indent,
		Summary:       summary,
		DefaultFrom:   routing.DefaultFrom,
		MaxNameLength: routing.MaxNameLength,
	}
}
