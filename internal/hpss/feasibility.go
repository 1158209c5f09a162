package hpss

// Feasibility wraps the Parameter Planner with a structured verdict
// (spec §4.D). It is pure and read-only: it never touches the
// universe beyond the caller-supplied cardinality, and it must be run
// (and must report feasible) before Generate ever invokes the
// Sampling Engine (invariant I4).
func Feasibility(n, m int, t float64, universeSize uint64) (Verdict, error) {
	plan, err := PlanFor(n, m, t)
	if err != nil {
		return Verdict{}, err
	}

	var safetyMargin float64
	if plan.RequiredPool > 0 {
		safetyMargin = float64(universeSize) / float64(plan.RequiredPool)
	}

	var collisionSafetyFactor float64
	if plan.RequiredCombos > 0 {
		collisionSafetyFactor = float64(plan.AvailableCombos) / float64(plan.RequiredCombos)
	}

	insufficientIcons := universeSize < plan.RequiredPool

	recommendation := recommend(insufficientIcons, collisionSafetyFactor)
	feasible := !insufficientIcons && collisionSafetyFactor >= 1.0

	return Verdict{
		Feasible:              feasible,
		TotalIcons:            universeSize,
		RequiredPool:          plan.RequiredPool,
		MaxOverlap:            plan.MaxOverlap,
		SafetyMargin:          safetyMargin,
		NumPartitions:         NumPartitions,
		PartitionsPerSet:      plan.Depth,
		AvailableCombinations: plan.AvailableCombos,
		RequiredCombinations:  plan.RequiredCombos,
		CollisionSafetyFactor: collisionSafetyFactor,
		Recommendation:        recommendation,
	}, nil
}

// recommend implements the recommendation ladder (spec §4.D): the
// first matching rule wins.
func recommend(insufficientIcons bool, collisionSafetyFactor float64) string {
	switch {
	case insufficientIcons:
		return RecommendationInsufficientIcons
	case collisionSafetyFactor < 0.5:
		return RecommendationTooManySets
	case collisionSafetyFactor < 1.0:
		return RecommendationRisky
	case collisionSafetyFactor < 2.0:
		return RecommendationCaution
	default:
		return RecommendationSafe
	}
}
