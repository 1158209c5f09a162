package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rawblock/icon-set-generator/internal/hpss"
	"github.com/rawblock/icon-set-generator/internal/metrics"
	"github.com/rawblock/icon-set-generator/pkg/models"
)

// defaultOverlapThreshold is used when a request omits overlapThreshold;
// an explicit value, including 0.0, is used as given.
const defaultOverlapThreshold = 0.10

// POST /api/v1/generate
// Runs the Feasibility Oracle and, if feasible, the Sampling Engine,
// persists the result, and broadcasts completion over the WebSocket hub.
func (h *APIHandler) handleGenerate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Envelope validation happens before the core ever sees the
	// request (SPEC_FULL §3.1): numSets and itemsPerSet are bounded
	// independently of whatever the core's own DepthOutOfRange check
	// would later reject.
	if req.NumSets < 1 || req.NumSets > h.limits.MaxSets {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("numSets must be in [1, %d]", h.limits.MaxSets)})
		return
	}
	if req.ItemsPerSet < 1 || req.ItemsPerSet > h.limits.MaxItemsPerSet {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("itemsPerSet must be in [1, %d]", h.limits.MaxItemsPerSet)})
		return
	}

	// OverlapThreshold is a pointer so an explicit 0.0 (spec §8
	// scenario 5: fully disjoint sets) is preserved; only an absent
	// field falls back to the default.
	overlapThreshold := defaultOverlapThreshold
	if req.OverlapThreshold != nil {
		overlapThreshold = *req.OverlapThreshold
	}
	if overlapThreshold < 0 || overlapThreshold > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "overlapThreshold must be in [0,1]"})
		return
	}

	requestID := uuid.New().String()
	ctx := c.Request.Context()
	start := time.Now()

	sets, err := hpss.Generate(ctx, req.NumSets, req.ItemsPerSet, overlapThreshold, h.universe)
	if err != nil {
		h.respondGenerateError(c, requestID, err)
		return
	}
	executionTimeMs := time.Since(start).Milliseconds()

	size, sizeErr := h.universe.Size(ctx)
	if sizeErr != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "universe unavailable", "details": sizeErr.Error()})
		return
	}
	verdict, vErr := hpss.Feasibility(req.NumSets, req.ItemsPerSet, overlapThreshold, size)
	if vErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": vErr.Error()})
		return
	}

	stats := metrics.OverlapStats(sets, rand.New(rand.NewSource(time.Now().UnixNano())))

	if h.dbStore != nil {
		if err := h.dbStore.SaveGenerationResult(ctx, requestID, req.NumSets, req.ItemsPerSet, overlapThreshold, verdict, executionTimeMs, sets); err != nil {
			log.Printf("Failed to persist generation result %s: %v", requestID, err)
		}
	}

	resp := models.GenerateResponse{
		RequestID:       requestID,
		ExecutionTimeMs: executionTimeMs,
		TotalSets:       len(sets),
		ItemsPerSet:     req.ItemsPerSet,
		Verdict:         verdict,
		Stats: models.Stats{
			MaxJaccardSampled: stats.Max,
			AvgJaccardSampled: stats.Avg,
			PairsSampled:      stats.PairsSampled,
			PairsPossible:     stats.PairsPossible,
			Exhaustive:        stats.Exhaustive,
		},
		Sets: sets,
	}

	if h.wsHub != nil {
		h.wsHub.BroadcastGenerationComplete(requestID, verdict, len(sets))
	}

	c.JSON(http.StatusOK, resp)
}

// respondGenerateError maps hpss.CoreError kinds onto HTTP status codes
// (spec §7): infeasible requests are a client-facing rejection with the
// verdict attached, invalid arguments are a 400, universe failures are a
// 503, cancellation is a 504, and shortfalls are server-side 500s.
func (h *APIHandler) respondGenerateError(c *gin.Context, requestID string, err error) {
	var coreErr *hpss.CoreError
	if !errors.As(err, &coreErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch coreErr.Kind {
	case hpss.ErrKindInfeasible:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "request is infeasible",
			"requestId": requestID,
			"verdict":   coreErr.Verdict,
		})
	case hpss.ErrKindInvalidArguments:
		c.JSON(http.StatusBadRequest, gin.H{"error": coreErr.Error()})
	case hpss.ErrKindUniverseUnavailable:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": coreErr.Error()})
	case hpss.ErrKindCancelled:
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": coreErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": coreErr.Error()})
	}
}

// GET /api/v1/generate/:requestId
// Replays a previously persisted generation.
func (h *APIHandler) handleGetGeneration(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not connected"})
		return
	}
	requestID := c.Param("requestId")

	info, err := h.dbStore.GetGenerationRequest(c.Request.Context(), requestID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "generation request not found"})
		return
	}

	dbSets, err := h.dbStore.GetGenerationSets(c.Request.Context(), requestID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load generation sets", "details": err.Error()})
		return
	}

	sets := make([]models.Set, len(dbSets))
	for i, gs := range dbSets {
		sets[i] = models.Set{SetIndex: gs.SetIndex, ItemIDs: gs.ItemIDs}
	}

	c.JSON(http.StatusOK, models.GenerationRecord{
		RequestID:       info.RequestID,
		NumSets:         info.NumSets,
		ItemsPerSet:     info.ItemsPerSet,
		Feasible:        info.Feasible,
		Recommendation:  info.Recommendation,
		ExecutionTimeMs: info.ExecutionTimeMs,
		Sets:            sets,
	})
}

// GET /api/v1/feasibility?numSets=&itemsPerSet=&overlapThreshold=
// Runs the Feasibility Oracle alone, without sampling, so callers can
// probe whether a request would succeed before paying for generation.
func (h *APIHandler) handleFeasibility(c *gin.Context) {
	n, ok1 := queryInt(c, "numSets")
	m, ok2 := queryInt(c, "itemsPerSet")
	t, ok3 := queryFloat(c, "overlapThreshold", defaultOverlapThreshold)
	if !ok1 || !ok2 || !ok3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "numSets and itemsPerSet must be positive integers and overlapThreshold must be in [0,1]"})
		return
	}

	ctx := c.Request.Context()
	size, err := h.universe.Size(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "universe unavailable", "details": err.Error()})
		return
	}

	verdict, err := hpss.Feasibility(n, m, t, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// handleHealth returns engine status and universe connectivity for
// service discovery.
func (h *APIHandler) handleHealth(c *gin.Context) {
	dbConnected := h.dbStore != nil

	status := "operational"
	var universeSize uint64
	if h.universe != nil {
		if size, err := h.universe.Size(context.Background()); err == nil {
			universeSize = size
		} else {
			status = "degraded"
		}
	} else {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        status,
		"engine":        "icon-set generation engine",
		"hashIdentity":  hpss.HashIdentity,
		"numPartitions": hpss.NumPartitions,
		"universeSize":  universeSize,
		"dbConnected":   dbConnected,
	})
}

// queryInt parses a required positive-integer query parameter.
func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// queryFloat parses an optional query parameter, falling back to def
// when absent, rejecting anything outside [0, 1] (spec's T domain).
func queryFloat(c *gin.Context, key string, def float64) (float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		return 0, false
	}
	return v, true
}
