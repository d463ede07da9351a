package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
)

// FastTierPrefix namespaces fast-scorer entries so the two scoring
// tiers never collide even though they share one backing file.
const FastTierPrefix = "fast_"

// ScoreKey builds the composite cache key for one (resume, job
// description) pair. The job description is content-hashed so the same
// posting text always hits the same entry across requests and restarts.
func ScoreKey(prefix, filename, jobDescription string) string {
	sum := sha256.Sum256([]byte(jobDescription))
	return fmt.Sprintf("%s%s_%x", prefix, filename, sum[:16])
}

// ScoreStore is a disk-backed map of score-cache keys to full scoring
// results. It is an optimization only: a miss never fails a request,
// and persistence errors are logged rather than surfaced. Entries are
// written once and never updated in place.
type ScoreStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]models.ScoreResult
	loaded  bool
}

func NewScoreStore(path string) *ScoreStore {
	return &ScoreStore{path: path}
}

func (s *ScoreStore) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.entries = map[string]models.ScoreResult{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to read score cache %s: %v", s.path, err)
		}
		return
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		log.Printf("⚠️  Corrupt score cache %s, starting empty: %v", s.path, err)
		s.entries = map[string]models.ScoreResult{}
	}
}

// Get returns the cached result for key, if present.
func (s *ScoreStore) Get(key string) (models.ScoreResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	result, ok := s.entries[key]
	return result, ok
}

// Put stores the result under key and persists the whole file. Two
// workers computing the same key is benign: results are deterministic
// per input, so the overwrite is idempotent.
func (s *ScoreStore) Put(key string, result models.ScoreResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	s.entries[key] = result
	s.persistLocked()
}

// Len reports the number of cached entries.
func (s *ScoreStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return len(s.entries)
}

func (s *ScoreStore) persistLocked() {
	data, err := json.Marshal(s.entries)
	if err != nil {
		log.Printf("⚠️  Could not marshal score cache: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		log.Printf("⚠️  Could not create cache directory: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		log.Printf("⚠️  Could not save score cache: %v", err)
	}
}
