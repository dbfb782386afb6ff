package counterRepo

import "context"

// SequenceStore holds named monotonically increasing counters. Every
// implementation must make Increment atomic across processes.
type SequenceStore interface {
	// Exists reports whether key has been initialised.
	Exists(ctx context.Context, key string) (bool, error)
	// SeedIfAbsent initialises key to value unless it already exists. Safe to call concurrently.
	SeedIfAbsent(ctx context.Context, key string, value int64) error
	// Increment adds one to key and returns the new value. A missing key starts from zero.
	Increment(ctx context.Context, key string) (int64, error)
}
