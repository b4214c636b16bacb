package runs

import (
	"errors"
	"time"

	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/search"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrInvalidRunID = errors.New("invalid run ID")
)

// Run is one recorded solve
type Run struct {
	ID          string          `json:"id"`
	Maze        string          `json:"maze"` // maze id, or "inline" for posted layouts
	Strategy    search.Strategy `json:"strategy"`
	Fingerprint string          `json:"fingerprint"`
	Summary     report.Summary  `json:"summary"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RunPersistence defines the interface for persisting runs
type RunPersistence interface {
	// Save persists a run to storage
	Save(run *Run) error

	// Load retrieves a run from storage by ID
	Load(id string) (*Run, error)

	// Delete removes a run from storage
	Delete(id string) error

	// ListAll returns all persisted run IDs
	ListAll() ([]string, error)

	// Exists checks if a run exists in storage
	Exists(id string) bool
}
