// Backfills the talent-pool vector index from parse runs that completed
// before indexing was enabled.
//
// Usage: go run scripts/backfill_talent.go
package main

import (
	"context"
	"encoding/json"
	"log"

	"jobportal/resume-parser/internal/config"
	"jobportal/resume-parser/internal/models"
	"jobportal/resume-parser/internal/repositories"
	"jobportal/resume-parser/internal/services"
)

const batchSize = 50

func main() {
	log.Println("🚀 Starting talent index backfill...")

	// Load configuration
	cfg := config.Load()

	if cfg.Gemini.APIKey == "" || cfg.Qdrant.URL == "" {
		log.Fatal("❌ Backfill requires GEMINI_API_KEY and QDRANT_URL")
	}

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	runRepo := repositories.NewParseRunRepository(db)

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	talentService, err := services.NewTalentService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := talentService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	ctx := context.Background()
	indexed, failed := 0, 0

	for {
		runs, err := runRepo.FindUnindexed(batchSize)
		if err != nil {
			log.Fatalf("❌ Failed to load unindexed parse runs: %v", err)
		}
		if len(runs) == 0 {
			break
		}

		batchIndexed := 0
		for _, run := range runs {
			var profile models.Profile
			if err := json.Unmarshal([]byte(run.ProfileJSON), &profile); err != nil {
				log.Printf("⚠️ Skipping run %s: bad profile JSON: %v\n", run.ID, err)
				failed++
				continue
			}

			if err := talentService.IndexProfile(ctx, run.DocumentID, profile); err != nil {
				log.Printf("❌ Failed to index run %s: %v\n", run.ID, err)
				failed++
				continue
			}

			if err := runRepo.MarkIndexed(run.ID); err != nil {
				log.Printf("❌ Failed to mark run %s indexed: %v\n", run.ID, err)
				failed++
				continue
			}

			indexed++
			batchIndexed++
			log.Printf("✅ Indexed %s (%s)\n", run.DocumentID, profile.Name())
		}

		// A batch of all failures would otherwise loop forever
		if batchIndexed == 0 {
			log.Println("⚠️ No progress in this batch, stopping")
			break
		}
	}

	log.Printf("📦 Backfill complete: %d indexed, %d failed\n", indexed, failed)
}
