package metrics

import (
	"math/rand"
	"testing"

	"github.com/rawblock/icon-set-generator/internal/hpss"
)

func TestOverlapStats_Exhaustive(t *testing.T) {
	sets := []hpss.OutputSet{
		{Index: 0, Items: []int64{1, 2, 3}},
		{Index: 1, Items: []int64{3, 4, 5}},
		{Index: 2, Items: []int64{6, 7, 8}},
	}
	stats := OverlapStats(sets, rand.New(rand.NewSource(1)))
	if !stats.Exhaustive {
		t.Fatal("expected exhaustive scan for 3 sets")
	}
	if stats.PairsPossible != 3 {
		t.Fatalf("PairsPossible = %d, want 3", stats.PairsPossible)
	}
	if stats.PairsSampled != 3 {
		t.Fatalf("PairsSampled = %d, want 3", stats.PairsSampled)
	}
	// sets 0 and 1 share item 3: J = 1/5 = 0.2; sets 0,2 and 1,2 are disjoint: J=0.
	if stats.Max < 0.2-1e-9 || stats.Max > 0.2+1e-9 {
		t.Fatalf("Max = %v, want 0.2", stats.Max)
	}
}

func TestOverlapStats_SamplesLargeBatches(t *testing.T) {
	sets := make([]hpss.OutputSet, exhaustiveScanLimit+50)
	for i := range sets {
		sets[i] = hpss.OutputSet{Index: i, Items: []int64{int64(i), int64(i + 1)}}
	}
	stats := OverlapStats(sets, rand.New(rand.NewSource(42)))
	if stats.Exhaustive {
		t.Fatal("expected sampled scan for a large batch")
	}
	if stats.PairsSampled != samplePairTarget {
		t.Fatalf("PairsSampled = %d, want %d", stats.PairsSampled, samplePairTarget)
	}
}

func TestOverlapStats_SingleSet(t *testing.T) {
	sets := []hpss.OutputSet{{Index: 0, Items: []int64{1, 2, 3}}}
	stats := OverlapStats(sets, rand.New(rand.NewSource(1)))
	if stats.PairsPossible != 0 {
		t.Fatalf("PairsPossible = %d, want 0 for a single set", stats.PairsPossible)
	}
}

func TestJaccard_DisjointAndIdentical(t *testing.T) {
	a := []int64{1, 2, 3}
	b := []int64{4, 5, 6}
	if got := jaccard(a, b); got != 0 {
		t.Errorf("jaccard(disjoint) = %v, want 0", got)
	}
	if got := jaccard(a, a); got != 1 {
		t.Errorf("jaccard(identical) = %v, want 1", got)
	}
}
