// Package lookup answers route requests against the current atlas snapshot.
// It is the single entry point shared by the web, chat, and CLI front ends.
package lookup

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/zoneroute/internal/observability"
	"github.com/cory-johannsen/zoneroute/internal/travel/atlas"
	"github.com/cory-johannsen/zoneroute/internal/travel/resolve"
	"github.com/cory-johannsen/zoneroute/internal/travel/route"
)

// RequiredError reports a request field that was left blank.
// It unwraps to resolve.ErrEmptyInput.
type RequiredError struct {
	Field string
}

// Error returns the user-facing message.
func (e *RequiredError) Error() string {
	return fmt.Sprintf("The '%s' field is required.", e.Field)
}

// Unwrap returns resolve.ErrEmptyInput.
func (e *RequiredError) Unwrap() error {
	return resolve.ErrEmptyInput
}

// DefaultMaxNameLength caps a requested zone name, in runes, when
// Options.MaxNameLength is zero.
const DefaultMaxNameLength = 128

// ErrNameTooLong classifies a requested zone name over the length limit.
var ErrNameTooLong = errors.New("zone name too long")

// LengthError reports a request field longer than the planner accepts.
// It unwraps to ErrNameTooLong.
type LengthError struct {
	Field string
	Max   int
}

// Error returns the user-facing message.
func (e *LengthError) Error() string {
	return fmt.Sprintf("The '%s' field must be at most %d characters.", e.Field, e.Max)
}

// Unwrap returns ErrNameTooLong.
func (e *LengthError) Unwrap() error {
	return ErrNameTooLong
}

// Request is a route question. From may be blank.
type Request struct {
	From string
	To   string
}

// Result is a successful lookup.
type Result struct {
	// ID correlates the lookup with its log lines.
	ID string
	// From and To are the resolved canonical zone names.
	From string
	To   string
	// Route is the annotated route from From to To.
	Route route.Route
	// Checked is the number of queue entries the search examined.
	Checked int
	// Text is the rendered instructions, with the summary when enabled.
	Text string
	// AtlasVersion is the snapshot the lookup ran against.
	AtlasVersion uint64
}

// Options configures a Planner.
type Options struct {
	// Frontend labels metrics and logs ("web", "telnet", "cli").
	Frontend string
	// Resolver selects the name matching strategy and thresholds.
	Resolver resolve.Options
	// Rules drive search and annotation.
	Rules route.Rules
	// Indent is the staircase indent unit. Empty means route.DefaultIndent.
	Indent string
	// Summary prefixes rendered routes with the checked-count header.
	Summary bool
	// DefaultFrom replaces a blank Request.From.
	DefaultFrom string
	// MaxNameLength rejects longer names before matching. Zero means
	// DefaultMaxNameLength.
	MaxNameLength int
}

// Planner resolves, searches, annotates, and renders routes.
// It is safe for concurrent use.
type Planner struct {
	store     *atlas.Store
	opts      Options
	finder    *route.Finder
	annotator *route.Annotator
	formatter *route.Formatter
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewPlanner creates a Planner over store.
//
// Precondition: store must hold a snapshot; logger must be non-nil.
// Postcondition: Returns a Planner or an error when opts names an unknown
// resolver strategy.
func NewPlanner(store *atlas.Store, opts Options, logger *zap.Logger, metrics *observability.Metrics) (*Planner, error) {
	if store == nil || store.Current() == nil {
		return nil, errors.New("lookup: store has no snapshot")
	}
	snap := store.Current()
	if _, err := resolve.New(snap.Graph, snap.Aliases, opts.Resolver); err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}

	if opts.MaxNameLength <= 0 {
		opts.MaxNameLength = DefaultMaxNameLength
	}

	formatter := route.NewFormatter(opts.Rules)
	if opts.Indent != "" {
		formatter.Indent = opts.Indent
	}

	return &Planner{
		store:     store,
		opts:      opts,
		finder:    route.NewFinder(opts.Rules),
		annotator: route.NewAnnotator(opts.Rules),
		formatter: formatter,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// Lookup answers req against the current snapshot.
//
// Errors are *RequiredError, *LengthError, *resolve.MatchError (classified
// with the resolve.Err* kinds) or *route.NoPathError.
func (p *Planner) Lookup(req Request) (*Result, error) {
	id := uuid.NewString()
	start := time.Now()
	log := p.logger.With(
		zap.String("lookup_id", id),
		zap.String("frontend", p.opts.Frontend),
	)

	res, err := p.lookup(id, req)

	checked := 0
	if res != nil {
		checked = res.Checked
	}
	var noPath *route.NoPathError
	if errors.As(err, &noPath) {
		checked = noPath.Checked
	}
	status := Status(err)
	elapsed := time.Since(start)
	p.metrics.RecordLookup(p.opts.Frontend, status, checked, elapsed)

	if err != nil {
		log.Info("lookup failed",
			zap.String("from", req.From),
			zap.String("to", req.To),
			zap.String("status", status),
			zap.Int("checked", checked),
			zap.Error(err),
		)
		return nil, err
	}
	log.Info("lookup succeeded",
		zap.String("from", res.From),
		zap.String("to", res.To),
		zap.Int("hops", res.Route.Hops()),
		zap.Int("checked", res.Checked),
		zap.Uint64("atlas_version", res.AtlasVersion),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}

func (p *Planner) lookup(id string, req Request) (*Result, error) {
	to := strings.TrimSpace(req.To)
	if to == "" {
		return nil, &RequiredError{Field: "To Zone"}
	}
	if utf8.RuneCountInString(to) > p.opts.MaxNameLength {
		return nil, &LengthError{Field: "To Zone", Max: p.opts.MaxNameLength}
	}
	from := strings.TrimSpace(req.From)
	if utf8.RuneCountInString(from) > p.opts.MaxNameLength {
		return nil, &LengthError{Field: "From Zone", Max: p.opts.MaxNameLength}
	}
	if from == "" {
		from = p.opts.DefaultFrom
	}

	snap := p.store.Current()
	resolver, err := resolve.New(snap.Graph, snap.Aliases, p.opts.Resolver)
	if err != nil {
		return nil, err
	}

	fromZone, err := resolver.Resolve(from)
	if err != nil {
		return nil, err
	}
	toZone, err := resolver.Resolve(to)
	if err != nil {
		return nil, err
	}

	r, checked, err := p.finder.Search(snap.Graph, fromZone, toZone)
	if err != nil {
		return nil, err
	}
	r = p.annotator.Annotate(snap.Graph, r)

	text := p.formatter.Render(r)
	if p.opts.Summary {
		text = p.formatter.Summary(checked, fromZone, toZone) + text
	}

	return &Result{
		ID:           id,
		From:         fromZone,
		To:           toZone,
		Route:        r,
		Checked:      checked,
		Text:         text,
		AtlasVersion: snap.Version,
	}, nil
}

// Zones returns the canonical zone names starting with prefix, ignoring case.
// An empty prefix returns every zone. Names are sorted.
func (p *Planner) Zones(prefix string) []string {
	names := p.store.Current().Graph.Names()
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return names
	}
	out := make([]string, 0)
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), prefix) {
			out = append(out, n)
		}
	}
	return out
}

// Snapshot returns the atlas snapshot lookups currently run against.
func (p *Planner) Snapshot() *atlas.Snapshot {
	return p.store.Current()
}

// Frontend returns the frontend label the planner records metrics under.
func (p *Planner) Frontend() string {
	return p.opts.Frontend
}

// DefaultFrom returns the zone used when a request leaves From blank.
func (p *Planner) DefaultFrom() string {
	return p.opts.DefaultFrom
}

// Status classifies err as a metrics status label.
func Status(err error) string {
	switch {
	case err == nil:
		return observability.StatusOK
	case errors.Is(err, resolve.ErrEmptyInput):
		return observability.StatusEmptyInput
	case errors.Is(err, ErrNameTooLong):
		return observability.StatusTooLong
	case errors.Is(err, resolve.ErrNoMatch):
		return observability.StatusNoMatch
	case errors.Is(err, resolve.ErrAmbiguous):
		return observability.StatusAmbiguous
	case errors.Is(err, route.ErrNoPath):
		return observability.StatusNoPath
	default:
		return observability.StatusError
	}
}

// Message returns the text shown to a user for a failed lookup.
func Message(err error) string {
	var required *RequiredError
	var tooLong *LengthError
	var match *resolve.MatchError
	var noPath *route.NoPathError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &required):
		return required.Error()
	case errors.As(err, &tooLong):
		return tooLong.Error()
	case errors.As(err, &match):
		return match.Error()
	case errors.As(err, &noPath):
		return noPath.Error()
	default:
		return "Something went wrong while planning the route. Please try again."
	}
}
