package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/localrag/internal/adapters/driven/vector/bruteforce"
	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driven"
)

// failingBackend simulates a tier whose initialisation succeeds but
// whose capability probe fails.
type failingBackend struct {
	driven.VectorBackend
	tier   domain.Tier
	closed bool
}

func (f *failingBackend) Tier() domain.Tier            { return f.tier }
func (f *failingBackend) Ping(_ context.Context) error { return domain.ErrVectorIndexUnavailable }
func (f *failingBackend) Close() error                 { f.closed = true; return nil }

func TestSelect_PrefersPersistentTier(t *testing.T) {
	backend := Select(context.Background(), Config{
		DataDir:   t.TempDir(),
		Dimension: 8,
	})
	require.NotNil(t, backend)
	defer backend.Close()

	assert.Equal(t, domain.TierSQLiteVec, backend.Tier())
}

func TestSelectFrom_FallsThroughFailedProbes(t *testing.T) {
	ctx := context.Background()

	tier1 := &failingBackend{tier: domain.TierSQLiteVec}
	tier2 := &failingBackend{tier: domain.TierHNSW}
	fallback := bruteforce.New(4)

	backend := selectFrom(ctx, []candidate{
		func() (driven.VectorBackend, error) { return tier1, nil },
		func() (driven.VectorBackend, error) { return tier2, nil },
		func() (driven.VectorBackend, error) { return fallback, nil },
	})

	require.NotNil(t, backend)
	assert.Equal(t, domain.TierBruteForce, backend.Tier())
	assert.True(t, tier1.closed, "failed backends must be closed")
	assert.True(t, tier2.closed, "failed backends must be closed")
}

func TestSelectFrom_SkipsFailedConstruction(t *testing.T) {
	ctx := context.Background()
	fallback := bruteforce.New(4)

	backend := selectFrom(ctx, []candidate{
		func() (driven.VectorBackend, error) { return nil, errors.New("corrupted storage") },
		func() (driven.VectorBackend, error) { return fallback, nil },
	})

	require.NotNil(t, backend)
	assert.Equal(t, domain.TierBruteForce, backend.Tier())
}

func TestSelectFrom_AllFailed(t *testing.T) {
	backend := selectFrom(context.Background(), []candidate{
		func() (driven.VectorBackend, error) { return nil, errors.New("nope") },
	})
	assert.Nil(t, backend)
}
