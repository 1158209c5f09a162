// Package hpss implements Hash-Partitioned Stratified Sampling: the
// generation of N subsets of size M drawn from a large universe of
// 64-bit item identifiers such that every pairwise Jaccard similarity
// is bounded above by a caller-supplied threshold.
//
// The package is three pure functions (Stratum, PlanFor, Generate) plus
// the Universe capability the sampler consumes. It holds no mutable
// state of its own; K is the only process-wide constant.
package hpss

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// NumPartitions (K) is the fixed number of strata the universe is
// divided into. 128 strata yield >=4e9 stratum combinations at L=6
// while keeping per-stratum scans cheap on a universe of 1e5-1e6 items.
// This is a frozen constant of the algorithm's identity — changing it
// changes every output ever produced.
const NumPartitions = 128

// stratumSeedMultiplier and rankMultiplier/rankModulus are part of the
// public algorithm identity (spec §6). Preserve exactly.
const (
	stratumSeedMultiplier int64 = 999983
	rankMultiplier        int64 = 31
	rankModulus           int64 = 999983
)

// HashIdentity names the hash implementation backing H, so that
// persisted outputs produced under different versions are never mixed
// across a shared store (spec §4.A, §9).
const HashIdentity = "xxhash64-v2"

// H is the algorithm's frozen 64-bit integer hash. It must never
// change silently — any change invalidates determinism of every
// persisted output (spec §4.A).
//
// Implementation: cespare/xxhash/v2 over the big-endian byte encoding
// of the input, with the resulting 64-bit digest reinterpreted as a
// signed integer. xxhash is non-cryptographic, fast, and — unlike
// Go's runtime-seeded maphash or the generic hash/fnv family — ships a
// version-pinned, documented algorithm, which is what "stable across
// processes and builds" requires here.
func H(x int64) int64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(x))
	return int64(xxhash.Sum64(buf[:]))
}

// mod is a floor-style modulo that always returns a value in [0, m):
// Go's % can return a negative result when its left operand is
// negative, which the spec's "(x mod K + K) mod K" idiom exists to
// correct for.
func mod(x int64, m int64) int64 {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

// Stratum implements the Partition Oracle (spec §4.A):
// stratum(id) = ((H(id) mod K) + K) mod K.
//
// A universe stored in a partitioned backing store MUST compute
// physical partitions with this same function so that enumerating
// stratum p never surfaces an item whose Stratum(id) != p.
func Stratum(id int64) int {
	return int(mod(H(id), NumPartitions))
}
