package hpss

import "testing"

func TestFeasibility_InsufficientIcons(t *testing.T) {
	// spec §8 scenario 6: (N=1000, M=100, T=0.01) on a 1e5 universe
	// should report infeasible with required_pool > total_icons.
	v, err := Feasibility(1000, 100, 0.01, 100000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Feasible {
		t.Fatal("expected infeasible verdict")
	}
	if v.RequiredPool <= v.TotalIcons {
		t.Fatalf("RequiredPool=%d should exceed TotalIcons=%d for this scenario", v.RequiredPool, v.TotalIcons)
	}
	if v.Recommendation != RecommendationInsufficientIcons {
		t.Fatalf("Recommendation = %q, want %q", v.Recommendation, RecommendationInsufficientIcons)
	}
}

func TestFeasibility_SafeOnAmpleUniverse(t *testing.T) {
	// spec §8 scenario 1: (N=5, M=10, T=0.10) against 1e5 items should
	// be trivially feasible with a large safety margin.
	v, err := Feasibility(5, 10, 0.10, 100000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Feasible {
		t.Fatalf("expected feasible verdict, got %+v", v)
	}
	if v.Recommendation != RecommendationSafe {
		t.Errorf("Recommendation = %q, want %q", v.Recommendation, RecommendationSafe)
	}
}

func TestFeasibility_RecommendationLadderOrder(t *testing.T) {
	// Rule 1 (insufficient icons) must win over the collision-factor
	// rules even when the collision factor alone would read SAFE.
	v, err := Feasibility(1, 1000000, 0.5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Recommendation != RecommendationInsufficientIcons {
		t.Fatalf("Recommendation = %q, want %q (rule 1 must win)", v.Recommendation, RecommendationInsufficientIcons)
	}
	if v.Feasible {
		t.Fatal("Feasible must be false when rule 1 fires")
	}
}

func TestFeasibility_FeasibleRequiresCollisionFactorAtLeastOne(t *testing.T) {
	// With ample icons, any verdict whose collisionSafetyFactor is below
	// 1.0 (RISKY or too many sets) must report Feasible=false (spec §4.D).
	// M=2 clamps the depth to 2, so C(K,2)=8128 and the largest n here
	// drives the factor below 1.0.
	for n := 1; n <= 20000; n *= 4 {
		v, err := Feasibility(n, 2, 0.5, 10_000_000)
		if err != nil {
			t.Fatalf("PlanFor error at n=%d: %v", n, err)
		}
		if v.CollisionSafetyFactor < 1.0 && v.Feasible {
			t.Fatalf("n=%d: Feasible=true but collisionSafetyFactor=%v < 1.0", n, v.CollisionSafetyFactor)
		}
	}
}
