package hpss

import (
	"context"
	"testing"
)

// seqUniverse is a minimal in-package Universe over the identifiers
// 1..count, used to keep these tests independent of the internal/universe
// package (which itself imports hpss).
type seqUniverse struct {
	byStratum [NumPartitions][]int64
	size      uint64
}

func newSeqUniverse(count int) *seqUniverse {
	u := &seqUniverse{size: uint64(count)}
	for id := int64(1); id <= int64(count); id++ {
		p := Stratum(id)
		u.byStratum[p] = append(u.byStratum[p], id)
	}
	return u
}

func (u *seqUniverse) Size(ctx context.Context) (uint64, error) { return u.size, nil }

func (u *seqUniverse) EnumerateStratum(ctx context.Context, p int) ([]int64, error) {
	return u.byStratum[p], nil
}

func jaccard(a, b []int64) float64 {
	set := make(map[int64]bool, len(a))
	for _, x := range a {
		set[x] = true
	}
	inter, union := 0, 0
	seenUnion := make(map[int64]bool, len(a)+len(b))
	for _, x := range a {
		seenUnion[x] = true
	}
	for _, x := range b {
		if set[x] {
			inter++
		}
		seenUnion[x] = true
	}
	union = len(seenUnion)
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func TestGenerate_SizeAndNoDuplicates(t *testing.T) {
	// P1, P2
	u := newSeqUniverse(100000)
	sets, err := Generate(context.Background(), 5, 10, 0.10, u)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(sets) != 5 {
		t.Fatalf("got %d sets, want 5", len(sets))
	}
	for _, s := range sets {
		if len(s.Items) != 10 {
			t.Errorf("set %d has %d items, want 10", s.Index, len(s.Items))
		}
		seen := make(map[int64]bool)
		for _, id := range s.Items {
			if seen[id] {
				t.Errorf("set %d has duplicate item %d", s.Index, id)
			}
			seen[id] = true
		}
	}
}

func TestGenerate_PairwiseJaccardBound(t *testing.T) {
	// P3, spec §8 scenario 2 (scaled down for test speed)
	u := newSeqUniverse(100000)
	sets, err := Generate(context.Background(), 40, 20, 0.10, u)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			sim := jaccard(sets[i].Items, sets[j].Items)
			if sim > 0.10+1e-9 {
				t.Fatalf("J(%d,%d) = %v exceeds T=0.10", i, j, sim)
			}
		}
	}
}

func TestGenerate_Determinism(t *testing.T) {
	// P4
	u := newSeqUniverse(100000)
	first, err := Generate(context.Background(), 10, 15, 0.15, u)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := Generate(context.Background(), 10, 15, 0.15, u)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if len(first[i].Items) != len(second[i].Items) {
			t.Fatalf("set %d lengths differ", i)
		}
		for j := range first[i].Items {
			if first[i].Items[j] != second[i].Items[j] {
				t.Fatalf("set %d item %d differs: %d vs %d", i, j, first[i].Items[j], second[i].Items[j])
			}
		}
	}
}

func TestGenerate_OrderingAscending(t *testing.T) {
	// P5
	u := newSeqUniverse(100000)
	sets, err := Generate(context.Background(), 8, 12, 0.2, u)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i, s := range sets {
		if s.Index != i {
			t.Errorf("set at position %d has Index %d", i, s.Index)
		}
		for k := 1; k < len(s.Items); k++ {
			if s.Items[k-1] >= s.Items[k] {
				t.Errorf("set %d items not strictly ascending at %d: %d >= %d", i, k, s.Items[k-1], s.Items[k])
			}
		}
	}
}

func TestGenerate_InfeasibleNeverSamples(t *testing.T) {
	// P6, I4: an infeasible request must return an error, never sets.
	u := newSeqUniverse(100000)
	sets, err := Generate(context.Background(), 1000, 100, 0.01, u)
	if err == nil {
		t.Fatalf("expected Infeasible error, got %d sets", len(sets))
	}
	ce, ok := err.(*CoreError)
	if !ok || ce.Kind != ErrKindInfeasible {
		t.Fatalf("expected ErrKindInfeasible, got %v", err)
	}
	if sets != nil {
		t.Fatalf("expected nil output on infeasible request, got %v", sets)
	}
}

func TestGenerate_ZeroThresholdDisjoint(t *testing.T) {
	// P7: T=0 implies all output sets are pairwise disjoint.
	u := newSeqUniverse(100000)
	sets, err := Generate(context.Background(), 5, 10, 0.0, u)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if jaccard(sets[i].Items, sets[j].Items) != 0 {
				t.Errorf("sets %d and %d are not disjoint at T=0", i, j)
			}
		}
	}
}

func TestGenerate_CancellationBeforeStart(t *testing.T) {
	u := newSeqUniverse(100000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, 5, 10, 0.1, u)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	ce, ok := err.(*CoreError)
	if !ok || ce.Kind != ErrKindCancelled {
		t.Fatalf("expected ErrKindCancelled, got %v", err)
	}
}

func TestSelectStrata_AscendingL(t *testing.T) {
	strata := selectStrata(7, 5)
	if len(strata) != 5 {
		t.Fatalf("got %d strata, want 5", len(strata))
	}
	for l, p := range strata {
		if p < 0 || p >= NumPartitions {
			t.Errorf("stratum %d out of range", p)
		}
		if want := int(mod(H(7*stratumSeedMultiplier+int64(l)), NumPartitions)); p != want {
			t.Errorf("strata[%d] = %d, want %d", l, p, want)
		}
	}
}
