package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/Mishraaa-Anant/Automated-HR/internal/cache"
)

// Embedder is the slice of the Gemini service the shortlister needs.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	EmbeddingDimension() int
	EmbeddingModel() string
}

// RankedResume is one shortlist row: a resume with its semantic
// similarity to the job description.
type RankedResume struct {
	Filename   string
	Similarity float64
	Text       string
}

// ShortlistService maintains the resume embedding cache and ranks the
// corpus against a job description by cosine similarity.
type ShortlistService interface {
	EnsureEmbeddings(ctx context.Context) (map[string]cache.ResumeEntry, error)
	Rank(ctx context.Context, jobDescription string, topK int) ([]RankedResume, error)
}

type shortlistService struct {
	embedder Embedder
	store    *cache.EmbeddingStore
	storage  StorageService
	parser   PDFParserService
}

func NewShortlistService(embedder Embedder, store *cache.EmbeddingStore, storage StorageService, parser PDFParserService) ShortlistService {
	return &shortlistService{
		embedder: embedder,
		store:    store,
		storage:  storage,
		parser:   parser,
	}
}

// EnsureEmbeddings brings the embedding cache up to date with the
// corpus directory: every PDF not yet cached is extracted and embedded,
// sequentially in filename order. Unreadable or empty PDFs are logged
// and skipped; a missing corpus directory fails the whole pass.
func (s *shortlistService) EnsureEmbeddings(ctx context.Context) (map[string]cache.ResumeEntry, error) {
	entries := s.store.Load(s.embedder.EmbeddingModel(), s.embedder.EmbeddingDimension())

	files, err := s.storage.ListResumes()
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}

	changed := false
	for _, filename := range files {
		if _, ok := entries[filename]; ok {
			continue
		}

		text, err := s.parser.ExtractText(s.storage.ResumePath(filename))
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v", filename, err)
			continue
		}

		text = CleanText(text)
		if strings.TrimSpace(text) == "" {
			log.Printf("⚠️  Skipping %s: empty after cleaning", filename)
			continue
		}

		embedding, err := s.embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			log.Printf("⚠️  Skipping %s: embedding failed: %v", filename, err)
			continue
		}
		if len(embedding) != s.embedder.EmbeddingDimension() {
			log.Printf("⚠️  Skipping %s: embedding has %d dimensions, want %d",
				filename, len(embedding), s.embedder.EmbeddingDimension())
			continue
		}

		entries[filename] = cache.ResumeEntry{Text: text, Embedding: embedding}
		changed = true
		log.Printf("📄 Embedded %s (%d/%d cached)", filename, len(entries), len(files))
	}

	if changed {
		if err := s.store.Save(s.embedder.EmbeddingModel(), s.embedder.EmbeddingDimension(), entries); err != nil {
			return nil, fmt.Errorf("failed to save embedding cache: %w", err)
		}
	}

	return entries, nil
}

// Rank scores every cached resume against the job description and
// returns them ordered by similarity, highest first. topK <= 0 means
// no limit. An empty corpus yields an empty slice, not an error.
func (s *shortlistService) Rank(ctx context.Context, jobDescription string, topK int) ([]RankedResume, error) {
	entries, err := s.EnsureEmbeddings(ctx)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return []RankedResume{}, nil
	}

	jdEmbedding, err := s.embedder.GenerateEmbedding(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	filenames := make([]string, 0, len(entries))
	for filename := range entries {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	ranked := make([]RankedResume, 0, len(filenames))
	for _, filename := range filenames {
		entry := entries[filename]
		ranked = append(ranked, RankedResume{
			Filename:   filename,
			Similarity: cosineSimilarity(jdEmbedding, entry.Embedding),
			Text:       entry.Text,
		})
	}

	// Stable sort on top of the filename order makes ties
	// deterministic across runs.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
