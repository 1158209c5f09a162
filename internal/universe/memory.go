// Package universe provides Universe implementations for the HPSS
// core: an in-memory handle for tests and small embedded deployments,
// and a Postgres-backed handle for production (postgres.go).
package universe

import (
	"context"

	"github.com/rawblock/icon-set-generator/internal/hpss"
)

// MemoryUniverse is a Universe backed by a plain in-memory slice,
// stratified once at construction time. It exercises the "decouple
// the sampler from storage" design note (spec §9): the sampling
// engine never knows this isn't a database.
type MemoryUniverse struct {
	byStratum [hpss.NumPartitions][]int64
	size      uint64
}

// NewMemoryUniverse builds a MemoryUniverse from a flat list of item
// identifiers, bucketing each by hpss.Stratum at construction time so
// EnumerateStratum is a plain slice lookup.
func NewMemoryUniverse(ids []int64) *MemoryUniverse {
	u := &MemoryUniverse{size: uint64(len(ids))}
	for _, id := range ids {
		p := hpss.Stratum(id)
		u.byStratum[p] = append(u.byStratum[p], id)
	}
	return u
}

// NewSequentialMemoryUniverse builds a MemoryUniverse containing the
// identifiers 1..count inclusive — the canonical test universe used
// throughout the core's test suite and spec §8's worked scenarios.
func NewSequentialMemoryUniverse(count int) *MemoryUniverse {
	ids := make([]int64, count)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return NewMemoryUniverse(ids)
}

func (u *MemoryUniverse) Size(ctx context.Context) (uint64, error) {
	return u.size, nil
}

func (u *MemoryUniverse) EnumerateStratum(ctx context.Context, p int) ([]int64, error) {
	if p < 0 || p >= hpss.NumPartitions {
		return nil, nil
	}
	// Return a copy so callers mutating the slice (e.g. sort) never
	// corrupt the universe's own backing storage.
	out := make([]int64, len(u.byStratum[p]))
	copy(out, u.byStratum[p])
	return out, nil
}
