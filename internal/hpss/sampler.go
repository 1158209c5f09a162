package hpss

import (
	"context"
	"sort"
)

// largeDepthThreshold marks the stratification depth at which the
// sampler additionally checks for cancellation between strata, not
// just between set indices (spec §5).
const largeDepthThreshold = 5

// preTruncationFactor is the "2M" pre-truncation multiplier (spec §4.C
// step 4): keep the 2M lowest-ranked candidates per set before
// deduplicating down to M.
const preTruncationFactor = 2

// Generate runs the Feasibility Oracle and, only on a feasible
// verdict, the Sampling Engine, producing N sets in ascending set
// index with each set's items in ascending identifier order (spec §6,
// invariant I4: infeasible requests never reach the sampler).
func Generate(ctx context.Context, n, m int, t float64, universe Universe) ([]OutputSet, error) {
	size, err := universe.Size(ctx)
	if err != nil {
		return nil, errUniverseUnavailable(err)
	}

	verdict, err := Feasibility(n, m, t, size)
	if err != nil {
		return nil, err
	}
	if !verdict.Feasible {
		return nil, errInfeasible(verdict)
	}

	plan, err := PlanFor(n, m, t)
	if err != nil {
		return nil, err
	}

	sets := make([]OutputSet, n)
	for s := 0; s < n; s++ {
		if err := ctx.Err(); err != nil {
			return nil, errCancelled()
		}

		out, err := generateOne(ctx, s, m, plan.Depth, universe)
		if err != nil {
			return nil, err
		}
		sets[s] = out
	}

	return sets, nil
}

// candidate is one item under consideration for a given set, carrying
// enough provenance to break ranking ties deterministically.
type candidate struct {
	id      int64
	stratum int
	rank    int64
}

// generateOne produces OutputSet s per spec §4.C steps 1-5.
func generateOne(ctx context.Context, s, m, depth int, universe Universe) (OutputSet, error) {
	strata := selectStrata(s, depth)

	var candidates []candidate
	for i, p := range strata {
		if depth >= largeDepthThreshold && i > 0 {
			if err := ctx.Err(); err != nil {
				return OutputSet{}, errCancelled()
			}
		}

		ids, err := universe.EnumerateStratum(ctx, p)
		if err != nil {
			return OutputSet{}, errUniverseUnavailable(err)
		}
		for _, id := range ids {
			candidates = append(candidates, candidate{
				id:      id,
				stratum: p,
				rank:    mod(H(id*rankMultiplier+int64(s)), rankModulus),
			})
		}
	}

	// Step 4: pre-truncation. Keep the 2M lowest-ranked candidates.
	// Ties broken by ascending identifier, then ascending originating
	// stratum — determinism (I3) depends on this tiebreak being total.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.id != b.id {
			return a.id < b.id
		}
		return a.stratum < b.stratum
	})

	keep := preTruncationFactor * m
	if keep > len(candidates) {
		keep = len(candidates)
	}
	candidates = candidates[:keep]

	// Step 5: finalisation. Deduplicate by identifier, sort ascending
	// by identifier, take the first M.
	seen := make(map[int64]bool, len(candidates))
	items := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.id] {
			continue
		}
		seen[c.id] = true
		items = append(items, c.id)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	if len(items) < m {
		return OutputSet{}, errShortfall(s, len(items), m)
	}

	return OutputSet{Index: s, Items: items[:m]}, nil
}

// selectStrata computes the L candidate stratum indices for set s
// (spec §4.C step 1): p_{s,l} = ((H(s*999983 + l) mod K) + K) mod K,
// generated in ascending l order. Duplicate entries are tolerated —
// they are not explicitly deduplicated (spec §9 Open Questions); the
// per-set ranking stage absorbs the effect without breaking the
// intersection bound.
func selectStrata(s, depth int) []int {
	strata := make([]int, depth)
	for l := 0; l < depth; l++ {
		h := H(int64(s)*stratumSeedMultiplier + int64(l))
		strata[l] = int(mod(h, NumPartitions))
	}
	return strata
}
