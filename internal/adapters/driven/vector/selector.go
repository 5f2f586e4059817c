// Package vector selects the active similarity-search backend.
//
// Three tiers implement driven.VectorBackend. Selection happens once at
// startup by capability probing in strict preference order; a failed
// probe is logged as a degradation event and never surfaced to callers.
// The engine is designed to always work, trading recall and performance
// for availability.
package vector

import (
	"context"
	"path/filepath"

	"github.com/custodia-labs/localrag/cgo/hnsw"
	"github.com/custodia-labs/localrag/internal/adapters/driven/vector/bruteforce"
	"github.com/custodia-labs/localrag/internal/adapters/driven/vector/sqlitevec"
	"github.com/custodia-labs/localrag/internal/core/ports/driven"
	"github.com/custodia-labs/localrag/internal/logger"
)

// Config holds backend selection parameters.
type Config struct {
	// DataDir is the storage root for persistent tiers.
	DataDir string

	// Dimension is the embedding vector size all tiers must accept.
	Dimension int
}

// candidate lazily constructs a backend so a failing tier never
// allocates resources for the tiers below it.
type candidate func() (driven.VectorBackend, error)

// Select probes the tiers in preference order and returns the first
// usable backend. It never fails: the brute-force tier has no failure
// mode and terminates the chain.
func Select(ctx context.Context, cfg Config) driven.VectorBackend {
	logger.Section("Backend Selection")

	candidates := []candidate{
		func() (driven.VectorBackend, error) {
			return sqlitevec.New(cfg.DataDir, cfg.Dimension)
		},
		func() (driven.VectorBackend, error) {
			return hnsw.New(filepath.Join(cfg.DataDir, "hnsw.idx"), cfg.Dimension)
		},
		func() (driven.VectorBackend, error) {
			return bruteforce.New(cfg.Dimension), nil
		},
	}

	return selectFrom(ctx, candidates)
}

// selectFrom walks the candidate chain, probing each constructed
// backend with Ping before committing to it. Returns nil only if every
// candidate fails; the standard chain ends in brute force, which cannot.
func selectFrom(ctx context.Context, candidates []candidate) driven.VectorBackend {
	for _, build := range candidates {
		backend, err := build()
		if err != nil {
			logger.Warn("Vector backend initialisation failed, degrading: %v", err)
			continue
		}

		if err := backend.Ping(ctx); err != nil {
			logger.Warn("Vector backend %s failed probe, degrading: %v", backend.Tier(), err)
			backend.Close() //nolint:errcheck // probe failure already logged
			continue
		}

		logger.Info("Active vector backend: %s (%s)", backend.Tier(), backend.Tier().Description())
		return backend
	}

	return nil
}
