package runs

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager keeps recorded runs in memory, optionally backed by persistence
type Manager struct {
	runs        map[string]*Run
	persistence RunPersistence
	mu          sync.RWMutex
}

// NewManager creates an in-memory run manager
func NewManager() *Manager {
	return &Manager{
		runs: make(map[string]*Run),
	}
}

// NewManagerWithPersistence creates a run manager that saves every run
func NewManagerWithPersistence(persistence RunPersistence) *Manager {
	return &Manager{
		runs:        make(map[string]*Run),
		persistence: persistence,
	}
}

// Record stores run, assigning an ID and timestamp when they are unset
func (m *Manager) Record(run *Run) (*Run, error) {
	if run == nil {
		return nil, fmt.Errorf("run cannot be nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRunID, run.ID)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	m.mu.Lock()
	m.runs[strings.ToLower(run.ID)] = run
	m.mu.Unlock()

	// Persistence failures are logged; the run stays available in memory
	if m.persistence != nil {
		if err := m.persistence.Save(run); err != nil {
			log.Printf("Warning: failed to persist run %s: %v", run.ID, err)
		}
	}

	return run, nil
}

// Get retrieves a run by ID, falling back to persistence
func (m *Manager) Get(id string) (*Run, error) {
	key := strings.ToLower(id)

	m.mu.RLock()
	run, exists := m.runs[key]
	m.mu.RUnlock()

	if exists {
		return run, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		run, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted run: %w", err)
		}

		m.mu.Lock()
		m.runs[key] = run
		m.mu.Unlock()

		return run, nil
	}

	return nil, ErrRunNotFound
}

// List returns runs oldest first. A non-empty maze filters by maze id.
func (m *Manager) List(maze string) []*Run {
	m.mu.RLock()
	result := make([]*Run, 0, len(m.runs))
	for _, run := range m.runs {
		if maze != "" && run.Maze != maze {
			continue
		}
		result = append(result, run)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes a run from memory and persistence
func (m *Manager) Delete(id string) error {
	key := strings.ToLower(id)

	m.mu.Lock()
	_, inMemory := m.runs[key]
	delete(m.runs, key)
	m.mu.Unlock()

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted run: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrRunNotFound
	}
	return nil
}

// CleanupExpired removes runs older than maxAge from memory and returns how
// many were dropped. Persisted files are kept.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, run := range m.runs {
		if run.CreatedAt.Before(cutoff) {
			delete(m.runs, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of runs in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}

// LoadPersisted loads all persisted runs into memory
func (m *Manager) LoadPersisted() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted runs: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		if _, exists := m.runs[strings.ToLower(id)]; exists {
			continue
		}

		run, err := m.persistence.Load(id)
		if err != nil {
			log.Printf("Warning: failed to load persisted run %s: %v", id, err)
			continue
		}

		m.runs[strings.ToLower(id)] = run
		loaded++
	}

	if loaded > 0 {
		log.Printf("Loaded %d persisted runs from storage", loaded)
	}

	return nil
}
