package domain

// Tier identifies one interchangeable vector backend implementation.
// Selection happens once at startup in strict preference order; the
// engine degrades down the list rather than failing.
type Tier string

// Available backend tiers, best first.
const (
	// TierSQLiteVec is the persistent SQLite-backed index with
	// pre-ranking attribute filtering.
	TierSQLiteVec Tier = "sqlite-vec"

	// TierHNSW is the in-process HNSWlib index (CGO builds only).
	TierHNSW Tier = "hnsw"

	// TierBruteForce is the exact cosine scan over in-memory arrays.
	// Always available; O(n) per query.
	TierBruteForce Tier = "brute-force"
)

// IsValid returns true if the tier is recognised.
func (t Tier) IsValid() bool {
	switch t {
	case TierSQLiteVec, TierHNSW, TierBruteForce:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t Tier) String() string {
	return string(t)
}

// Description returns a human-readable description of the tier.
func (t Tier) Description() string {
	switch t {
	case TierSQLiteVec:
		return "SQLite-backed (persistent, filtered)"
	case TierHNSW:
		return "HNSW (in-process, approximate)"
	case TierBruteForce:
		return "Brute force (in-memory, exact)"
	default:
		return "Unknown"
	}
}

// Persistent returns true if the tier survives process restart on its own.
// Non-persistent tiers are reloaded from the metadata store at startup.
func (t Tier) Persistent() bool {
	return t == TierSQLiteVec
}
