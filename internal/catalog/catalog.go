// Package catalog holds the immutable, in-memory meteorite dataset together with
// its lookup indexes, a pre-shuffled snapshot and the precomputed statistics.
//
// A Catalog is built once with Build and never modified afterwards, so it can be
// shared by any number of goroutines without locking.
package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/jengzang/meteorites-backend-go/internal/stats"
	"golang.org/x/sync/errgroup"
)

// Catalog is the read-only dataset served by the API
type Catalog struct {
	meteorites  []*models.Meteorite
	byID        map[string]*models.Meteorite
	byName      map[string]*models.Meteorite
	shuffled    []*models.Meteorite
	stats       *models.Statistics
	diagnostics []Diagnostic
	ready       bool

	intN func(n int) int
}

// Option configures Build
type Option func(*buildOptions)

type buildOptions struct {
	shuffleRand *rand.Rand
	intN        func(n int) int
}

// WithShuffleSeed makes the pre-shuffle deterministic
func WithShuffleSeed(seed uint64) Option {
	return func(o *buildOptions) {
		o.shuffleRand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithOffsetSource replaces the source of random window offsets used by Sample.
// fn must be safe for concurrent use and return a value in [0, n).
func WithOffsetSource(fn func(n int) int) Option {
	return func(o *buildOptions) {
		o.intN = fn
	}
}

// Build normalizes the raw dataset and derives every lookup structure from it.
// Indexes plus shuffle and statistics are computed concurrently; both only read
// the normalized slice.
func Build(ctx context.Context, raw []models.RawMeteorite, opts ...Option) (*Catalog, error) {
	o := buildOptions{intN: rand.IntN}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{
		meteorites: make([]*models.Meteorite, 0, len(raw)),
		intN:       o.intN,
	}
	for _, r := range raw {
		m, diag := Normalize(r)
		c.meteorites = append(c.meteorites, m)
		if diag != nil {
			c.diagnostics = append(c.diagnostics, *diag)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.byID, c.byName = buildIndexes(c.meteorites)
		c.shuffled = shuffle(c.meteorites, o.shuffleRand)
		return ctx.Err()
	})
	g.Go(func() error {
		c.stats = stats.Compute(c.meteorites)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	c.ready = len(c.meteorites) > 0 && len(c.byID) > 0 && c.stats != nil
	return c, nil
}

// buildIndexes maps ids and folded names to records. Later records win on
// duplicate keys.
func buildIndexes(meteorites []*models.Meteorite) (byID, byName map[string]*models.Meteorite) {
	byID = make(map[string]*models.Meteorite, len(meteorites))
	byName = make(map[string]*models.Meteorite, len(meteorites))
	for _, m := range meteorites {
		if m.ID != "" {
			byID[m.ID] = m
		}
		if m.Name != "" {
			byName[NormalizeName(m.Name)] = m
		}
	}
	return byID, byName
}

// shuffle returns a uniformly permuted copy (Fisher-Yates)
func shuffle(meteorites []*models.Meteorite, r *rand.Rand) []*models.Meteorite {
	out := slices.Clone(meteorites)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if r != nil {
		r.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}
	return out
}

// Ready reports whether the catalog holds data that can be served
func (c *Catalog) Ready() bool {
	return c != nil && c.ready
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return len(c.meteorites)
}

// Meteorites returns the records in dataset order. The slice must not be modified.
func (c *Catalog) Meteorites() []*models.Meteorite {
	return c.meteorites
}

// Statistics returns the precomputed aggregate snapshot
func (c *Catalog) Statistics() *models.Statistics {
	return c.stats
}

// Diagnostics lists records that were excluded from an index
func (c *Catalog) Diagnostics() []Diagnostic {
	return c.diagnostics
}

// IndexSizes returns the number of entries in the id and name indexes
func (c *Catalog) IndexSizes() (byID, byName int) {
	return len(c.byID), len(c.byName)
}

// ByID looks up a record by its identifier
func (c *Catalog) ByID(id string) (*models.Meteorite, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// ByName looks up a record by name, ignoring case and accents
func (c *Catalog) ByName(name string) (*models.Meteorite, bool) {
	m, ok := c.byName[NormalizeName(name)]
	return m, ok
}

// Sample returns n records from the shuffled snapshot as one contiguous window
// at a random offset. n is clamped to the dataset size; the result never
// contains duplicates.
func (c *Catalog) Sample(n int) []*models.Meteorite {
	if n > len(c.shuffled) {
		n = len(c.shuffled)
	}
	if n <= 0 {
		return []*models.Meteorite{}
	}
	start := c.intN(len(c.shuffled) - n + 1)
	return slices.Clone(c.shuffled[start : start+n])
}
