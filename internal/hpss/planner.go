package hpss

import (
	"fmt"
	"math"
)

// maxSupportedDepth bounds the stratification depth for which
// combinationsAt is defined and fast. Beyond it the core fails with
// ErrKindInvalidArguments / DepthOutOfRange rather than silently
// computing an astronomically large (and untested) combination count.
const maxSupportedDepth = 8

// depthFloor is the collision-avoidance floor derived from the
// birthday-paradox argument P(collision) ~= N^2 / (2*C(K,L)) < 1%
// => C(K,L) > 50*N^2 (spec §4.B step 3).
func depthFloor(n int) int {
	switch {
	case n <= 80:
		return 3
	case n <= 460:
		return 4
	case n <= 2200:
		return 5
	default:
		return 6
	}
}

// combinationsAt computes C(K, l) exactly using the product form, for
// l in [1, maxSupportedDepth]. C(K,1) is defined as K per spec §4.B
// step 6. At K=128, l=8 the result is ~1.4e12, safely inside uint64.
func combinationsAt(l int) uint64 {
	if l <= 1 {
		return NumPartitions
	}
	var result uint64 = 1
	for i := 0; i < l; i++ {
		result = result * uint64(NumPartitions-i) / uint64(i+1)
	}
	return result
}

// PlanFor computes the GenerationPlan for (N, M, T) per spec §3 and §4.B.
// The resolved stratification depth is clamped to [1, min(K,M)]. It
// returns ErrKindInvalidArguments if N<1, M<1, T is outside [0,1], or
// the clamped depth is beyond the range combinationsAt supports.
func PlanFor(n, m int, t float64) (Plan, error) {
	if n < 1 {
		return Plan{}, errInvalidArguments(errf("numSets must be >= 1, got %d", n))
	}
	if m < 1 {
		return Plan{}, errInvalidArguments(errf("itemsPerSet must be >= 1, got %d", m))
	}
	if t < 0 || t > 1 {
		return Plan{}, errInvalidArguments(errf("overlapThreshold must be in [0,1], got %v", t))
	}

	// 1. o = floor(2*M*T / (1+T))
	o := int(math.Floor(2 * float64(m) * t / (1 + t)))

	// 2. Baseline HPSS depth. o=M is the permissive edge case (spec §4.B
	// edge cases): L_hpss is undefined there, defined as 1.
	var lHpss int
	if o >= m {
		lHpss = 1
	} else {
		lHpss = int(math.Ceil(float64(m) / float64(m-o)))
	}

	// 3. Collision-avoidance floor.
	lFloor := depthFloor(n)

	// 4. Final depth, clamped to [1, min(K, M)].
	l := lHpss
	if lFloor > l {
		l = lFloor
	}
	maxDepth := NumPartitions
	if m < maxDepth {
		maxDepth = m
	}
	if l < 1 {
		l = 1
	}
	if l > maxDepth {
		l = maxDepth
	}
	if l > maxSupportedDepth {
		return Plan{}, errInvalidArguments(errf("DepthOutOfRange: resolved depth %d exceeds supported range [1,%d]", l, maxSupportedDepth))
	}

	// 5. Required pool P* = ceil(1.1 * (M + (N-1)*M*(1 - 2T/(1+T))))
	perSetOverlapFraction := 1 - (2*t)/(1+t)
	requiredPoolF := 1.1 * (float64(m) + float64(n-1)*float64(m)*perSetOverlapFraction)
	requiredPool := uint64(math.Ceil(requiredPoolF))

	// 6. C(K, L) and required combinations.
	availableCombos := combinationsAt(l)
	requiredCombos := uint64(math.Ceil(float64(n) / 0.9))

	return Plan{
		N:               n,
		M:               m,
		T:               t,
		MaxOverlap:      o,
		Depth:           l,
		RequiredPool:    requiredPool,
		AvailableCombos: availableCombos,
		RequiredCombos:  requiredCombos,
	}, nil
}

func errf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
