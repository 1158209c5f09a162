// Package models holds the wire-level request/response shapes for the
// icon-set generation API. The core (internal/hpss) never imports
// this package — it works in terms of plain ints and its own Verdict
// and OutputSet types; this package is the HTTP envelope around them.
package models

import "time"

// GenerateRequest is the body of POST /api/v1/generate. OverlapThreshold
// is a pointer so an absent field can be defaulted while an explicit
// 0.0 (spec §8 scenario 5: fully disjoint sets) is preserved as-is.
type GenerateRequest struct {
	NumSets          int      `json:"numSets" binding:"required"`
	ItemsPerSet      int      `json:"itemsPerSet" binding:"required"`
	OverlapThreshold *float64 `json:"overlapThreshold"`
}

// Stats are aggregate pairwise statistics computed over the generated
// batch (spec §6: "max and avg Jaccard may be approximated by
// sampling pairs").
type Stats struct {
	MaxJaccardSampled float64 `json:"maxJaccardSampled"`
	AvgJaccardSampled float64 `json:"avgJaccardSampled"`
	PairsSampled      int     `json:"pairsSampled"`
	PairsPossible     int64   `json:"pairsPossible"`
	Exhaustive        bool    `json:"exhaustive"` // true if PairsSampled == PairsPossible
}

// GenerateResponse is the body returned for a feasible generation.
type GenerateResponse struct {
	RequestID       string      `json:"requestId"`
	ExecutionTimeMs int64       `json:"executionTimeMs"`
	TotalSets       int         `json:"totalSets"`
	ItemsPerSet     int         `json:"itemsPerSet"`
	Verdict         interface{} `json:"verdict"`
	Stats           Stats       `json:"stats"`
	Sets            interface{} `json:"sets,omitempty"`
}

// GenerationRecord is the persisted-and-replayed view of one prior
// request, used by GET /api/v1/generate/:requestId.
type GenerationRecord struct {
	RequestID       string    `json:"requestId"`
	NumSets         int       `json:"numSets"`
	ItemsPerSet     int       `json:"itemsPerSet"`
	Feasible        bool      `json:"feasible"`
	Recommendation  string    `json:"recommendation"`
	ExecutionTimeMs int64     `json:"executionTimeMs"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	Sets            []Set     `json:"sets"`
}

// Set is one replayed output set.
type Set struct {
	SetIndex int     `json:"setIndex"`
	ItemIDs  []int64 `json:"itemIds"`
}
