package hpss

import "context"

// Universe is the read-only, enumerable collection of item identifiers
// the core draws from. Implementations MAY cache per-stratum listings
// at their discretion, provided the listing stays stable for the
// duration of one Generate call (spec §6).
type Universe interface {
	// Size returns the total cardinality of the universe.
	Size(ctx context.Context) (uint64, error)
	// EnumerateStratum returns every item identifier belonging to
	// stratum p, where p = Stratum(id) for each returned id. The
	// iteration order is unspecified; it does not affect output
	// because ranking is hash-based (spec §5).
	EnumerateStratum(ctx context.Context, p int) ([]int64, error)
}

// OutputSet is one generated subset: M distinct item identifiers in
// ascending order, tagged with its position in the batch.
type OutputSet struct {
	Index int     `json:"setIndex"`
	Items []int64 `json:"itemIds"`
	// Shortfall is never set by Generate: a set with fewer than M
	// distinct candidates makes Generate return an ErrKindShortfall
	// error and no sets at all.
	Shortfall bool `json:"shortfall,omitempty"`
}

// Plan is the immutable derivation of (N, M, T) computed by the
// Parameter Planner (spec §3, §4.B). It is read-only once created and
// consumed by both the Feasibility Oracle and the Sampling Engine.
type Plan struct {
	N int     `json:"numSets"`
	M int     `json:"itemsPerSet"`
	T float64 `json:"overlapThreshold"`

	MaxOverlap        int    `json:"maxOverlap"`        // o
	Depth             int    `json:"partitionsPerSet"`  // L
	RequiredPool      uint64 `json:"requiredPool"`      // P*
	AvailableCombos   uint64 `json:"availableCombinations"` // C(K, L)
	RequiredCombos    uint64 `json:"requiredCombinations"`  // ceil(N / 0.9)
}

// Verdict is the structured feasibility report (spec §4.D).
type Verdict struct {
	Feasible               bool    `json:"feasible"`
	TotalIcons             uint64  `json:"totalIcons"`
	RequiredPool           uint64  `json:"requiredPool"`
	MaxOverlap             int     `json:"maxOverlap"`
	SafetyMargin           float64 `json:"safetyMargin"`
	NumPartitions          int     `json:"numPartitions"`
	PartitionsPerSet       int     `json:"partitionsPerSet"`
	AvailableCombinations  uint64  `json:"availableCombinations"`
	RequiredCombinations   uint64  `json:"requiredCombinations"`
	CollisionSafetyFactor  float64 `json:"collisionSafetyFactor"`
	Recommendation         string  `json:"recommendation"`
}

// Recommendation ladder values (spec §4.D). Exported as constants so
// callers can compare without string literals scattered across layers.
const (
	RecommendationInsufficientIcons = "INFEASIBLE: insufficient icons"
	RecommendationTooManySets      = "INFEASIBLE: too many sets for available combinations"
	RecommendationRisky            = "RISKY"
	RecommendationCaution          = "CAUTION"
	RecommendationSafe             = "SAFE"
)
