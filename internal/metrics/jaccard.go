// Package metrics computes aggregate reporting statistics over a
// generated batch. It is strictly a reporting layer: spec.md §1 puts
// metrics emission out of scope for the core, and nothing here feeds
// back into generation (no adaptive retries per spec.md's Non-goals).
package metrics

import (
	"math/rand"

	"github.com/rawblock/icon-set-generator/internal/hpss"
)

// exhaustiveScanLimit is the largest batch size for which every pair
// is scanned exactly once (spec §8 scenario 2: 100 sets, 4,950 pairs).
// Beyond it, OverlapStats falls back to sampling O(n) random pairs
// (spec §8, "Property-based tests": "the test budget may sample O(N)
// random pairs when N^2/2 is prohibitive").
const exhaustiveScanLimit = 200

// JaccardStats summarizes the pairwise Jaccard similarity of a
// generated batch, computed either exhaustively or by sampling.
type JaccardStats struct {
	Max           float64
	Avg           float64
	PairsSampled  int
	PairsPossible int64
	Exhaustive    bool
}

// jaccard computes |A intersect B| / |A union B| for two ascending,
// duplicate-free slices of item identifiers (the shape hpss.OutputSet
// guarantees).
func jaccard(a, b []int64) float64 {
	ai, bi, inter := 0, 0, 0
	for ai < len(a) && bi < len(b) {
		switch {
		case a[ai] == b[bi]:
			inter++
			ai++
			bi++
		case a[ai] < b[bi]:
			ai++
		default:
			bi++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// pairsPossible computes C(n, 2) = n*(n-1)/2, the combinatorial helper
// this package uses to report "pairs scanned vs. pairs possible".
func pairsPossible(n int) int64 {
	if n < 2 {
		return 0
	}
	return int64(n) * int64(n-1) / 2
}

// OverlapStats computes max/avg pairwise Jaccard over a generated
// batch. For batches up to exhaustiveScanLimit it scans every pair;
// larger batches sample a bounded number of random pairs using rng
// (the caller supplies the generator so results stay reproducible
// across calls, independent of the deterministic generation itself).
func OverlapStats(sets []hpss.OutputSet, rng *rand.Rand) JaccardStats {
	n := len(sets)
	possible := pairsPossible(n)
	if possible == 0 {
		return JaccardStats{PairsPossible: possible, Exhaustive: true}
	}

	if n <= exhaustiveScanLimit {
		return scanAllPairs(sets, possible)
	}
	return sampleRandomPairs(sets, possible, rng)
}

func scanAllPairs(sets []hpss.OutputSet, possible int64) JaccardStats {
	var maxJ, sumJ float64
	count := 0
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			sim := jaccard(sets[i].Items, sets[j].Items)
			if sim > maxJ {
				maxJ = sim
			}
			sumJ += sim
			count++
		}
	}
	return JaccardStats{
		Max:           maxJ,
		Avg:           safeDiv(sumJ, count),
		PairsSampled:  count,
		PairsPossible: possible,
		Exhaustive:    true,
	}
}

// samplePairTarget is how many random pairs are drawn for reporting
// when an exhaustive scan would be too slow. It is large enough to
// give a stable estimate without making the response envelope's
// stats computation itself the bottleneck for N in the thousands.
const samplePairTarget = 5000

func sampleRandomPairs(sets []hpss.OutputSet, possible int64, rng *rand.Rand) JaccardStats {
	n := len(sets)
	target := samplePairTarget
	if int64(target) > possible {
		target = int(possible)
	}

	var maxJ, sumJ float64
	for k := 0; k < target; k++ {
		i := rng.Intn(n)
		j := rng.Intn(n)
		for j == i {
			j = rng.Intn(n)
		}
		sim := jaccard(sets[i].Items, sets[j].Items)
		if sim > maxJ {
			maxJ = sim
		}
		sumJ += sim
	}

	return JaccardStats{
		Max:           maxJ,
		Avg:           safeDiv(sumJ, target),
		PairsSampled:  target,
		PairsPossible: possible,
		Exhaustive:    false,
	}
}

func safeDiv(a float64, b int) float64 {
	if b <= 0 {
		return 0
	}
	return a / float64(b)
}
