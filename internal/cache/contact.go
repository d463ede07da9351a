package cache

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
)

// ContactStore caches extracted contact details per resume filename so
// repeated analyses skip the regex pass and any LLM fallback calls.
type ContactStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]models.ContactInfo
	loaded  bool
}

func NewContactStore(path string) *ContactStore {
	return &ContactStore{path: path}
}

func (s *ContactStore) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.entries = map[string]models.ContactInfo{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to read contact cache %s: %v", s.path, err)
		}
		return
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		log.Printf("⚠️  Corrupt contact cache %s, starting empty: %v", s.path, err)
		s.entries = map[string]models.ContactInfo{}
	}
}

func (s *ContactStore) Get(filename string) (models.ContactInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	info, ok := s.entries[filename]
	return info, ok
}

func (s *ContactStore) Put(filename string, info models.ContactInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	s.entries[filename] = info
	s.persistLocked()
}

func (s *ContactStore) persistLocked() {
	data, err := json.Marshal(s.entries)
	if err != nil {
		log.Printf("⚠️  Could not marshal contact cache: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		log.Printf("⚠️  Could not create cache directory: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		log.Printf("⚠️  Could not save contact cache: %v", err)
	}
}
