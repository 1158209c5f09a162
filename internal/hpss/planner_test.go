package hpss

import "testing"

func TestPlanFor_InvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		n, m    int
		t       float64
	}{
		{"zero sets", 0, 10, 0.1},
		{"negative sets", -1, 10, 0.1},
		{"zero items", 5, 0, 0.1},
		{"threshold below range", 5, 10, -0.1},
		{"threshold above range", 5, 10, 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PlanFor(tt.n, tt.m, tt.t); err == nil {
				t.Fatalf("PlanFor(%d, %d, %v) expected error, got nil", tt.n, tt.m, tt.t)
			}
		})
	}
}

func TestPlanFor_DepthFloorTable(t *testing.T) {
	// Drive N high enough that the collision floor dominates L_hpss,
	// so the resolved depth tracks the table in spec §4.B step 3.
	tests := []struct {
		n         int
		wantDepth int
	}{
		{80, 3},
		{460, 4},
		{2200, 5},
		{5000, 6},
	}
	for _, tt := range tests {
		plan, err := PlanFor(tt.n, 10, 0.5) // o = 6, so L_hpss = ceil(10/4) = 3, never above the floor
		if err != nil {
			t.Fatalf("PlanFor(%d, ...) unexpected error: %v", tt.n, err)
		}
		if plan.Depth != tt.wantDepth {
			t.Errorf("PlanFor(%d, ...).Depth = %d, want %d", tt.n, plan.Depth, tt.wantDepth)
		}
	}
}

func TestPlanFor_PermissiveThresholdEdgeCase(t *testing.T) {
	// o = M for sufficiently large T: L_hpss is defined as 1 (spec §4.B
	// edge cases). With small N the collision floor (3) still applies.
	plan, err := PlanFor(10, 10, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.MaxOverlap != plan.M {
		t.Errorf("MaxOverlap = %d, want M = %d at T=1.0", plan.MaxOverlap, plan.M)
	}
	if plan.Depth < 3 {
		t.Errorf("Depth = %d, want >= 3 (collision floor)", plan.Depth)
	}
}

func TestPlanFor_ZeroThreshold(t *testing.T) {
	plan, err := PlanFor(5, 10, 0.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.MaxOverlap != 0 {
		t.Errorf("MaxOverlap = %d, want 0 at T=0", plan.MaxOverlap)
	}
}

func TestCombinationsAt(t *testing.T) {
	if got := combinationsAt(1); got != NumPartitions {
		t.Errorf("combinationsAt(1) = %d, want %d", got, NumPartitions)
	}
	// C(128, 2) = 128*127/2 = 8128
	if got := combinationsAt(2); got != 8128 {
		t.Errorf("combinationsAt(2) = %d, want 8128", got)
	}
	// C(128, 8) should be a large but exact value well under 2^63.
	c8 := combinationsAt(8)
	if c8 == 0 {
		t.Fatal("combinationsAt(8) overflowed to 0")
	}
	const approxUpperBound = 2_000_000_000_000 // C(128, 8) is ~1.4e12
	if c8 > approxUpperBound {
		t.Errorf("combinationsAt(8) = %d, exceeds the spec's documented magnitude", c8)
	}
}

func TestPlanFor_DepthOutOfRange(t *testing.T) {
	// M=20, T=0.95 gives o=19, so M-o=1 and L_hpss=ceil(20/1)=20, which
	// exceeds both maxSupportedDepth and is not clamped away by
	// min(K,M)=20. This should fail with DepthOutOfRange rather than
	// silently computing an unsupported combination count.
	_, err := PlanFor(5, 20, 0.95)
	if err == nil {
		t.Fatal("expected DepthOutOfRange-style error for M=20, T=0.95")
	}
}
