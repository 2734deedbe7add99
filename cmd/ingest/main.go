package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"strings"

	"resumatch/internal/config"
	"resumatch/internal/repositories"
	"resumatch/internal/services"
)

// Offline ingestion of reference documents, e.g.:
//
//	go run ./cmd/ingest -docs job_description=./refs/jd.pdf,cv_rubric=./refs/rubric.pdf
//
// Each entry replaces every stored chunk under its source label.
func main() {
	docsFlag := flag.String("docs", "", "comma-separated source=path pairs to ingest")
	flag.Parse()

	if *docsFlag == "" {
		log.Fatal("❌ -docs is required, e.g. -docs job_description=./refs/jd.pdf")
	}

	log.Println("🚀 Starting document ingestion...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	chunkRepo := repositories.NewChunkRepository(db)
	ragService := services.NewRAGService(chunkRepo, geminiService, services.NewTextChunker())
	extractor := services.NewTextExtractor()

	ctx := context.Background()

	successCount := 0
	failCount := 0

	for _, entry := range strings.Split(*docsFlag, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			log.Printf("⚠️  Skipping malformed entry %q (want source=path)", entry)
			failCount++
			continue
		}
		source, path := parts[0], parts[1]

		log.Printf("📄 Processing %s (%s)", path, source)

		text, err := extractor.Extract(path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}

		count, err := ragService.IngestDocument(ctx, source, filepath.Base(path), text)
		if err != nil {
			log.Printf("   ❌ Failed to ingest: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ Stored %d chunks for source %s", count, source)
		successCount++
	}

	log.Printf("📊 Ingestion summary: %d succeeded, %d failed", successCount, failCount)

	if failCount > 0 {
		log.Fatal("⚠️  Some documents failed to ingest. Please check the logs above.")
	}

	log.Println("✅ All documents ingested successfully!")
}
