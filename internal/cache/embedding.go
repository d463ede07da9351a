package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// embeddingSchemaVersion guards the on-disk layout. Bump it when the
// file shape changes so stale files are discarded structurally instead
// of by runtime type inspection.
const embeddingSchemaVersion = 1

// ResumeEntry is one cached resume: the extracted text and its dense
// embedding. Entries are never mutated after creation.
type ResumeEntry struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

type embeddingFile struct {
	Version   int                    `json:"version"`
	Model     string                 `json:"model"`
	Dimension int                    `json:"dimension"`
	Entries   map[string]ResumeEntry `json:"entries"`
}

// EmbeddingStore persists resume embeddings to a single JSON file.
// Mixing vectors from two embedding models would corrupt every cosine
// comparison, so Load discards the entire cache (not individual
// entries) whenever the stored model, dimension, or any vector length
// disagrees with the active model.
type EmbeddingStore struct {
	path string
	mu   sync.Mutex
}

func NewEmbeddingStore(path string) *EmbeddingStore {
	return &EmbeddingStore{path: path}
}

// Load returns the cached entries valid for the given model and
// dimension. A missing or corrupt file degrades to an empty cache,
// never an error.
func (s *EmbeddingStore) Load(model string, dimension int) map[string]ResumeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to read embedding cache %s: %v", s.path, err)
		}
		return map[string]ResumeEntry{}
	}

	var file embeddingFile
	if err := json.Unmarshal(data, &file); err != nil {
		log.Printf("⚠️  Corrupt embedding cache %s, starting empty: %v", s.path, err)
		return map[string]ResumeEntry{}
	}

	if file.Version != embeddingSchemaVersion || file.Model != model || file.Dimension != dimension {
		log.Printf("🔄 Embedding cache %s was built for %s/%d, discarding", s.path, file.Model, file.Dimension)
		return map[string]ResumeEntry{}
	}

	for filename, entry := range file.Entries {
		if len(entry.Embedding) != dimension {
			log.Printf("🔄 Embedding for %s has dimension %d, expected %d; discarding cache", filename, len(entry.Embedding), dimension)
			return map[string]ResumeEntry{}
		}
	}

	if file.Entries == nil {
		return map[string]ResumeEntry{}
	}
	return file.Entries
}

// Save overwrites the cache file with the given entries.
func (s *EmbeddingStore) Save(model string, dimension int, entries map[string]ResumeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := embeddingFile{
		Version:   embeddingSchemaVersion,
		Model:     model,
		Dimension: dimension,
		Entries:   entries,
	}

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write embedding cache: %w", err)
	}

	return nil
}
