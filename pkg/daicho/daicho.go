// Package daicho is the engine facade: it owns the cached canonical
// table, rebuilds it from the raw ledger sources and answers queries
// against the current snapshot.
package daicho

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/cognicore/daicho/pkg/daicho/canon"
	"github.com/cognicore/daicho/pkg/daicho/interchange"
	"github.com/cognicore/daicho/pkg/daicho/internalerr"
	"github.com/cognicore/daicho/pkg/daicho/query"
	"github.com/cognicore/daicho/pkg/daicho/rebuild"
)

// Options configures an Engine.
type Options struct {
	// DataFile is the combined interchange TSV.
	DataFile string
	// PurchasePath and SalesPath are the raw ledger sources.
	PurchasePath string
	SalesPath    string
	// Classifier is the argv prefix of the external row classifier.
	Classifier []string
	// Encoding is the source character encoding of the raw ledgers.
	Encoding string
	Log      zerolog.Logger
}

// Engine holds the latest canonical table as an immutable snapshot
// behind an atomic pointer. Readers take whichever snapshot is current
// without locking; a mutex serializes loads and rebuilds, and the
// pointer is swapped only after a new table is fully built, so no one
// ever observes a half state.
type Engine struct {
	opts    Options
	log     zerolog.Logger
	runner  *rebuild.Runner
	mu      sync.Mutex
	table   atomic.Pointer[canon.Table]
	entropy *ulid.MonotonicEntropy
}

// New creates an engine. Nothing is loaded until the first query or an
// explicit Load.
func New(opts Options) *Engine {
	return &Engine{
		opts: opts,
		log:  opts.Log,
		runner: &rebuild.Runner{
			Classifier: opts.Classifier,
			Encoding:   opts.Encoding,
		},
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Load returns the current canonical table, reading and canonicalizing
// the combined interchange file on first use. force discards the cached
// snapshot first.
func (e *Engine) Load(force bool) (*canon.Table, error) {
	if !force {
		if t := e.table.Load(); t != nil {
			return t, nil
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !force {
		if t := e.table.Load(); t != nil {
			return t, nil
		}
	}
	return e.loadLocked()
}

// loadLocked builds a fresh snapshot from the combined interchange file
// and publishes it. Callers must hold e.mu.
func (e *Engine) loadLocked() (*canon.Table, error) {
	if _, err := os.Stat(e.opts.DataFile); err != nil {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrNoData, e.opts.DataFile)
	}

	src, err := interchange.ReadFile(e.opts.DataFile)
	if err != nil {
		return nil, err
	}

	table := canon.Canonicalize(src)
	e.table.Store(table)
	e.log.Debug().
		Int("transactions", len(table.Transactions)).
		Str("file", e.opts.DataFile).
		Msg("canonical table loaded")
	return table, nil
}

// Rebuild re-runs the external classification for both ledger sources,
// merges the interchange files and swaps in the freshly canonicalized
// table. It blocks until the whole rebuild finishes; on any failure the
// previous snapshot stays in place.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	runID := ulid.MustNew(ulid.Now(), e.entropy).String()
	log := e.log.With().Str("run_id", runID).Logger()
	start := time.Now()
	log.Info().Msg("rebuild started")

	if err := e.runner.Regenerate(ctx, e.opts.PurchasePath, e.opts.SalesPath, e.opts.DataFile); err != nil {
		log.Error().Err(err).Msg("rebuild failed")
		return err
	}
	table, err := e.loadLocked()
	if err != nil {
		log.Error().Err(err).Msg("rebuild failed")
		return err
	}

	log.Info().
		Int("transactions", len(table.Transactions)).
		Dur("elapsed", time.Since(start)).
		Msg("rebuild finished")
	return nil
}

// Query answers a filtered, sorted, projected read against the current
// snapshot, loading it first if needed.
func (e *Engine) Query(f query.Filters) ([]query.Record, error) {
	table, err := e.Load(false)
	if err != nil {
		return nil, err
	}
	return query.Run(table, f), nil
}
