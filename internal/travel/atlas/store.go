// Package atlas owns the process-wide zone graph snapshot and swaps in a
// freshly built one on reload.
package atlas

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/zoneroute/internal/travel/resolve"
	"github.com/cory-johannsen/zoneroute/internal/travel/zone"
)

// Snapshot is an immutable graph together with its alias index.
type Snapshot struct {
	// Graph is the travel graph.
	Graph *zone.Graph
	// Aliases indexes Graph by lowercase base name.
	Aliases *resolve.AliasIndex
	// Source is the file the snapshot was loaded from, if any.
	Source string
	// LoadedAt is when the snapshot was built.
	LoadedAt time.Time
	// Version increases by one on every successful load.
	Version uint64
}

// NewSnapshot builds a snapshot from raw zone data.
func NewSnapshot(raw map[string][]zone.Connection, source string, version uint64) *Snapshot {
	g := zone.Build(raw)
	return &Snapshot{
		Graph:    g,
		Aliases:  resolve.BuildAliasIndex(g),
		Source:   source,
		LoadedAt: time.Now(),
		Version:  version,
	}
}

// LoadFunc reads raw zone data from a path.
type LoadFunc func(path string) (map[string][]zone.Connection, error)

// ReloadListener is notified after every reload attempt.
type ReloadListener func(snap *Snapshot, err error)

// Store provides thread-safe access to the current snapshot.
// Readers receive an immutable snapshot and never observe a partial reload.
type Store struct {
	reloadMu  sync.Mutex
	mu        sync.RWMutex
	current   *Snapshot
	path      string
	load      LoadFunc
	logger    *zap.Logger
	listeners []ReloadListener
}

// NewStore creates a Store that loads zone data from path.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a Store holding the first snapshot, or an error if
// the initial load fails.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	return NewStoreWithLoader(path, zone.LoadFromFile, logger)
}

// NewStoreWithLoader is NewStore with a custom loader.
func NewStoreWithLoader(path string, load LoadFunc, logger *zap.Logger) (*Store, error) {
	s := &Store{path: path, load: load, logger: logger}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore creates a Store around an existing snapshot. Reload on a
// static store always fails.
func NewStaticStore(snap *Snapshot, logger *zap.Logger) *Store {
	return &Store{current: snap, logger: logger}
}

// Current returns the current snapshot.
//
// Postcondition: Returns a non-nil snapshot for any Store built by a constructor.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the data file path, or "" for a static store.
func (s *Store) Path() string {
	return s.path
}

// OnReload registers a listener called after every reload attempt.
func (s *Store) OnReload(l ReloadListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Reload loads the data file, builds a new snapshot, and swaps it in.
// On failure the current snapshot stays in place.
//
// Postcondition: Returns the new snapshot, or the error and leaves Current unchanged.
func (s *Store) Reload() (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	start := time.Now()

	if s.load == nil {
		err := fmt.Errorf("store has no data source")
		s.notify(nil, err)
		return nil, err
	}

	raw, err := s.load(s.path)
	if err != nil {
		s.logger.Error("loading zone data",
			zap.String("path", s.path),
			zap.Error(err),
		)
		s.notify(nil, err)
		return nil, err
	}

	for name, conns := range zone.UnknownDirections(raw) {
		for _, c := range conns {
			s.logger.Warn("connection has unknown direction and will not be traversed",
				zap.String("zone", name),
				zap.String("target", c.Target),
				zap.String("direction", string(c.Direction)),
			)
		}
	}

	s.mu.RLock()
	var version uint64 = 1
	if s.current != nil {
		version = s.current.Version + 1
	}
	s.mu.RUnlock()

	snap := NewSnapshot(raw, s.path, version)
	logSnapshot(s.logger, snap)

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.logger.Info("zone graph loaded",
		zap.String("path", s.path),
		zap.Uint64("version", snap.Version),
		zap.Int("zones", snap.Graph.Len()),
		zap.Int("placeholders", len(snap.Graph.Placeholders())),
		zap.Int("aliases", snap.Aliases.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	s.notify(snap, nil)
	return snap, nil
}

func (s *Store) notify(snap *Snapshot, err error) {
	s.mu.RLock()
	listeners := make([]ReloadListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(snap, err)
	}
}

// logSnapshot emits debug diagnostics for synthesized zones and alias collisions.
func logSnapshot(logger *zap.Logger, snap *Snapshot) {
	for _, name := range snap.Graph.Placeholders() {
		logger.Debug("added placeholder for missing zone", zap.String("zone", name))
	}
	for _, c := range snap.Aliases.Collisions() {
		logger.Debug("alias shared by several zones",
			zap.String("alias", c.Alias),
			zap.String("winner", c.Winner),
			zap.Strings("others", c.Losers),
		)
	}
}
