package main

import (
	"log"
	"os"
	"strconv"

	"github.com/rawblock/icon-set-generator/internal/api"
	"github.com/rawblock/icon-set-generator/internal/db"
	"github.com/rawblock/icon-set-generator/internal/hpss"
	"github.com/rawblock/icon-set-generator/internal/universe"
)

func main() {
	log.Println("Starting icon-set generation engine...")
	log.Printf("Partition Oracle: K=%d partitions, hash identity %q", hpss.NumPartitions, hpss.HashIdentity)

	// ─── Environment Variables ──────────────────────────────────────────
	// All configuration comes from environment variables; none is
	// required. DATABASE_URL enables persistence; without it the engine
	// runs without a database.
	// ────────────────────────────────────────────────────────────────────

	var dbConn *db.PostgresStore
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL != "" {
		conn, err := db.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to PostgreSQL, continuing without persistence. Error: %v", err)
		} else {
			dbConn = conn
			defer dbConn.Close()
			if err := dbConn.InitSchema(); err != nil {
				log.Printf("Warning: DB schema init failed: %v", err)
			}
		}
	} else {
		log.Println("DATABASE_URL not set — running without persistence")
	}

	u := buildUniverse(dbConn)

	// Setup WebSocket Hub
	wsHub := api.NewHub()
	go wsHub.Run()

	// Setup the Gin Router
	r := api.SetupRouter(dbConn, u, wsHub, buildEnvelopeLimits())

	port := getEnvOrDefault("PORT", "5339")

	log.Printf("Engine running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildUniverse selects the Universe backend via UNIVERSE_BACKEND:
// "postgres" (default when DATABASE_URL and a live connection are
// present) or "memory" (a deterministic sequential universe, sized by
// MEMORY_UNIVERSE_SIZE, useful for demos and environments without a
// database).
func buildUniverse(dbConn *db.PostgresStore) hpss.Universe {
	backend := getEnvOrDefault("UNIVERSE_BACKEND", "postgres")

	if backend == "postgres" && dbConn != nil {
		log.Println("Universe backend: postgres")
		return universe.NewPostgresUniverse(dbConn.GetPool())
	}

	size, err := strconv.Atoi(getEnvOrDefault("MEMORY_UNIVERSE_SIZE", "100000"))
	if err != nil || size <= 0 {
		size = 100000
	}
	log.Printf("Universe backend: memory (sequential, size=%d)", size)
	return universe.NewSequentialMemoryUniverse(size)
}

// buildEnvelopeLimits reads MAX_SETS/MAX_ITEMS_PER_SET overrides for the
// request envelope caps (SPEC_FULL §2.2/§3.1), falling back to the
// documented defaults when unset or unparsable.
func buildEnvelopeLimits() api.EnvelopeLimits {
	limits := api.DefaultEnvelopeLimits()

	if v, err := strconv.Atoi(os.Getenv("MAX_SETS")); err == nil && v > 0 {
		limits.MaxSets = v
	}
	if v, err := strconv.Atoi(os.Getenv("MAX_ITEMS_PER_SET")); err == nil && v > 0 {
		limits.MaxItemsPerSet = v
	}
	return limits
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
