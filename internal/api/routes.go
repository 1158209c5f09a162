package api

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/icon-set-generator/internal/db"
	"github.com/rawblock/icon-set-generator/internal/hpss"
)

// EnvelopeLimits bounds the request envelope at the HTTP layer, before
// the core is ever invoked (SPEC_FULL §2.2/§3.1): numSets and
// itemsPerSet must each fall in [1, the configured cap]. These are
// distinct from — and enforced ahead of — the core's own internal
// DepthOutOfRange check.
type EnvelopeLimits struct {
	MaxSets        int
	MaxItemsPerSet int
}

// DefaultEnvelopeLimits matches SPEC_FULL §3.1's documented envelope:
// numSets in [1, 10000], itemsPerSet in [1, 100].
func DefaultEnvelopeLimits() EnvelopeLimits {
	return EnvelopeLimits{MaxSets: 10000, MaxItemsPerSet: 100}
}

// APIHandler holds the dependencies shared by every handler: persistence,
// the live universe the sampler draws from, and the WebSocket hub used
// to broadcast completed generations.
type APIHandler struct {
	dbStore  *db.PostgresStore
	universe hpss.Universe
	wsHub    *Hub
	limits   EnvelopeLimits
}

// SetupRouter wires the icon-set generation API: a public health/stream
// group and an auth+rate-limited group for the generation endpoints.
func SetupRouter(dbStore *db.PostgresStore, universe hpss.Universe, wsHub *Hub, limits EnvelopeLimits) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS env var.
	// Production: ALLOWED_ORIGINS=https://example.com,https://www.example.com
	// Development: ALLOWED_ORIGINS=http://localhost:3000 (or leave empty for *)
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{
		dbStore:  dbStore,
		universe: universe,
		wsHub:    wsHub,
		limits:   limits,
	}

	// ── Public endpoints (no auth) ─────────────────────────────
	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/stream", wsHub.Subscribe)
		pub.GET("/feasibility", handler.handleFeasibility)
	}

	// ── Protected endpoints (require bearer token if API_AUTH_TOKEN set) ──
	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware())
	// Rate-limit protected endpoints to 30 req/min per IP (burst=5):
	// generation is the expensive operation here, just as /analyze/:txid
	// was in the predecessor engine.
	auth.Use(NewRateLimiter(30, 5).Middleware())
	{
		auth.POST("/generate", handler.handleGenerate)
		auth.GET("/generate/:requestId", handler.handleGetGeneration)
	}

	return r
}
