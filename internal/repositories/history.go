package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
)

// ErrCandidateNotFound is returned when an ID matches no stored
// candidate.
var ErrCandidateNotFound = errors.New("candidate not found")

// HistoryRepository persists every analyzed candidate across restarts.
// Records are kept newest batch first in a single JSON file, which is
// rewritten whole on every mutation. All access goes through one mutex;
// the workflow endpoints are low traffic by nature.
type HistoryRepository interface {
	All() []models.Candidate
	Prepend(candidates []models.Candidate) error
	FindByID(id string) (models.Candidate, error)
	Update(id string, mutate func(c *models.Candidate)) (models.Candidate, error)
	UpdateMany(ids []string, mutate func(c *models.Candidate)) (int, error)
	Delete(id string) error
}

type historyRepository struct {
	path string

	mu      sync.Mutex
	records []models.Candidate
	loaded  bool
}

func NewHistoryRepository(path string) HistoryRepository {
	return &historyRepository{path: path}
}

func (r *historyRepository) loadLocked() {
	if r.loaded {
		return
	}
	r.loaded = true
	r.records = []models.Candidate{}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to read history file %s: %v", r.path, err)
		}
		return
	}

	if err := json.Unmarshal(data, &r.records); err != nil {
		log.Printf("⚠️  Corrupt history file %s, starting empty: %v", r.path, err)
		r.records = []models.Candidate{}
	}
}

func (r *historyRepository) saveLocked() error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// All returns a copy of every stored candidate, newest batch first.
func (r *historyRepository) All() []models.Candidate {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()

	out := make([]models.Candidate, len(r.records))
	copy(out, r.records)
	return out
}

// Prepend inserts a finished batch ahead of all earlier ones.
func (r *historyRepository) Prepend(candidates []models.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()

	r.records = append(append([]models.Candidate{}, candidates...), r.records...)
	return r.saveLocked()
}

func (r *historyRepository) FindByID(id string) (models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()

	for _, c := range r.records {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Candidate{}, ErrCandidateNotFound
}

// Update applies mutate to the matching record and persists. The
// updated copy is returned.
func (r *historyRepository) Update(id string, mutate func(c *models.Candidate)) (models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()

	for i := range r.records {
		if r.records[i].ID == id {
			mutate(&r.records[i])
			if err := r.saveLocked(); err != nil {
				return models.Candidate{}, err
			}
			return r.records[i], nil
		}
	}
	return models.Candidate{}, ErrCandidateNotFound
}

// UpdateMany applies mutate to every record whose ID is listed and
// reports how many matched.
func (r *historyRepository) UpdateMany(ids []string, mutate func(c *models.Candidate)) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	count := 0
	for i := range r.records {
		if wanted[r.records[i].ID] {
			mutate(&r.records[i])
			count++
		}
	}
	if count > 0 {
		if err := r.saveLocked(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

func (r *historyRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()

	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return r.saveLocked()
		}
	}
	return ErrCandidateNotFound
}
