package main

import (
	"context"
	"log"
	"strings"

	"github.com/Mishraaa-Anant/Automated-HR/internal/cache"
	"github.com/Mishraaa-Anant/Automated-HR/internal/config"
	"github.com/Mishraaa-Anant/Automated-HR/internal/services"
)

// Warms the resume embedding cache ahead of time so the first analysis
// request does not pay for embedding the whole corpus.
func main() {
	log.Println("🚀 Warming resume embedding cache...")

	// Load configuration
	cfg := config.Load()

	geminiService, err := services.NewGeminiService(cfg.Gemini)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	storageService := services.NewStorageService(cfg.Storage.ResumeFolder)
	if err := storageService.EnsureResumeDir(); err != nil {
		log.Fatalf("❌ Failed to create resume directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	embeddingStore := cache.NewEmbeddingStore(cfg.Storage.EmbeddingCache)

	shortlister := services.NewShortlistService(geminiService, embeddingStore, storageService, pdfParser)

	files, err := storageService.ListResumes()
	if err != nil {
		log.Fatalf("❌ Failed to list resumes: %v", err)
	}
	log.Printf("📄 Found %d resumes in %s", len(files), cfg.Storage.ResumeFolder)

	entries, err := shortlister.EnsureEmbeddings(context.Background())
	if err != nil {
		log.Fatalf("❌ Embedding pass failed: %v", err)
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Cache Summary:")
	log.Printf("   📄 Resumes on disk: %d", len(files))
	log.Printf("   💾 Embeddings cached: %d", len(entries))
	if skipped := len(files) - len(entries); skipped > 0 {
		log.Printf("   ⚠️  Skipped (unreadable or empty): %d", skipped)
	}
	log.Println(strings.Repeat("=", 60))

	log.Println("✅ Embedding cache is warm!")
}
