package main

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/zoneroute/internal/config"
	"github.com/cory-johannsen/zoneroute/internal/observability"
	"github.com/cory-johannsen/zoneroute/internal/travel/atlas"
	"github.com/cory-johannsen/zoneroute/internal/travel/lookup"
)

// cliOptions holds the persistent flags shared by every subcommand.
type cliOptions struct {
	configPath string
	zonesFile  string
	strategy   string
	accept     int
	summary    bool
	verbose    bool
	noColor    bool
}

// lookupError presents a planner failure as its user-facing message.
type lookupError struct {
	err error
}

func (e *lookupError) Error() string { return lookup.Message(e.err) }

func (e *lookupError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "zoneroute",
		Short:         "Plan the shortest travel route between two zones",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.Disable()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "optional configuration file")
	flags.StringVar(&opts.zonesFile, "zones", "", "zone data file; overrides atlas.zones_file")
	flags.StringVar(&opts.strategy, "strategy", "", "name matching strategy: fuzzy or prefix")
	flags.IntVar(&opts.accept, "accept", 0, "minimum fuzzy score (0-100) to accept a match")
	flags.BoolVar(&opts.summary, "summary", true, "print the routes-checked summary")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newRouteCmd(opts), newZonesCmd(opts))
	return root
}

func newRouteCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "route <to> [from]",
		Short: "Print the shortest route to a zone",
		Long: `Print the shortest route to a zone.

When from is omitted the route starts at routing.default_from.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, logger, err := opts.planner(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			req := lookup.Request{To: args[0]}
			if len(args) == 2 {
				req.From = args[1]
			}
			res, err := planner.Lookup(req)
			if err != nil {
				return &lookupError{err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
}

func newZonesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "zones [prefix]",
		Short: "List zone names, optionally filtered by prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, logger, err := opts.planner(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			names := planner.Zones(prefix)
			if len(names) == 0 {
				return fmt.Errorf("no zones start with '%s'", prefix)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
			return nil
		},
	}
}

// planner loads configuration and zone data and builds a CLI planner.
//
// Postcondition: Returns a ready planner and its logger, or a non-nil error.
func (o *cliOptions) planner(cmd *cobra.Command) (*lookup.Planner, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if o.zonesFile != "" {
		cfg.Atlas.ZonesFile = o.zonesFile
	}

	resolver := cfg.Web.Resolver
	if cmd.Flags().Changed("strategy") {
		resolver.Strategy = o.strategy
	}
	if cmd.Flags().Changed("accept") {
		resolver.AcceptThreshold = o.accept
		if resolver.SuggestThreshold > o.accept {
			resolver.SuggestThreshold = o.accept
		}
	}
	summary := cfg.Web.Summary
	if cmd.Flags().Changed("summary") {
		summary = o.summary
	}

	logger, err := observability.NewCLILogger(o.verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	store, err := atlas.NewStore(cfg.Atlas.ZonesFile, logger)
	if err != nil {
		return nil, nil, err
	}
	planner, err := lookup.NewPlanner(store,
		lookup.OptionsFromConfig("cli", summary, resolver, cfg.Routing), logger, nil)
	if err != nil {
		return nil, nil, err
	}
	return planner, logger, nil
}
