package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ghodss/yaml"
	"github.com/wricardo/maze-solver/maze/grid"
)

var (
	ErrMazeNotFound = errors.New("maze not found")
	ErrInvalidMaze  = errors.New("invalid maze")
	ErrMazeExists   = errors.New("maze already exists in another format")
)

// Extensions lists the supported maze file formats in lookup order
var Extensions = []string{".txt", ".json", ".yaml", ".yml"}

// MazeConfig is a named maze document
type MazeConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Layout      []string `json:"layout"`
}

// Grid parses the layout
func (c *MazeConfig) Grid() (*grid.Grid, error) {
	return grid.Parse(c.Layout)
}

// MazeInfo describes a maze in listings
type MazeInfo struct {
	Filename    string `json:"filename"`
	MazeID      string `json:"maze_id"` // The identifier to use for solving
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Walls       int    `json:"walls"`
	Fingerprint string `json:"fingerprint"`
}

type entry struct {
	filename string
	config   *MazeConfig
	grid     *grid.Grid
}

// Manager handles maze loading and caching
type Manager struct {
	mazeDir string
	files   map[string]*entry // by filename
	ids     map[string]string // bare id to the filename it resolved to
	mu      sync.RWMutex
}

// NewManager creates a new maze manager
func NewManager(mazeDir string) (*Manager, error) {
	info, err := os.Stat(mazeDir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("maze directory does not exist: %s", mazeDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat maze directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("maze path is not a directory: %s", mazeDir)
	}

	return &Manager{
		mazeDir: mazeDir,
		files:   make(map[string]*entry),
		ids:     make(map[string]string),
	}, nil
}

// Dir returns the directory the manager reads from
func (m *Manager) Dir() string {
	return m.mazeDir
}

// LoadMaze loads a maze by id. The id may carry its file extension.
func (m *Manager) LoadMaze(name string) (*MazeConfig, error) {
	e, err := m.load(name)
	if err != nil {
		return nil, err
	}
	return e.config, nil
}

// LoadGrid loads a maze by id and returns its parsed grid
func (m *Manager) LoadGrid(name string) (*grid.Grid, error) {
	e, err := m.load(name)
	if err != nil {
		return nil, err
	}
	return e.grid, nil
}

func (m *Manager) load(name string) (*entry, error) {
	id, err := mazeID(name)
	if err != nil {
		return nil, err
	}
	ext := filepath.Ext(strings.TrimSpace(name))
	explicit := isSupported(ext)

	m.mu.RLock()
	// Check cache first
	if e := m.cachedLocked(id, ext, explicit); e != nil {
		m.mu.RUnlock()
		return e, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if e := m.cachedLocked(id, ext, explicit); e != nil {
		return e, nil
	}

	if explicit {
		return m.readLocked(id, ext)
	}

	// A file that fails to decode does not hide a later format
	var firstErr error
	for _, candidate := range Extensions {
		e, err := m.readLocked(id, candidate)
		if err == nil {
			m.ids[id] = e.filename
			return e, nil
		}
		if !errors.Is(err, ErrMazeNotFound) && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return nil, fmt.Errorf("%w: %s", ErrMazeNotFound, id)
}

func (m *Manager) cachedLocked(id, ext string, explicit bool) *entry {
	if explicit {
		return m.files[id+ext]
	}
	if filename, ok := m.ids[id]; ok {
		return m.files[filename]
	}
	return nil
}

// readLocked loads one file into the cache. Callers hold the write lock.
func (m *Manager) readLocked(id, ext string) (*entry, error) {
	filename := id + ext
	if e, ok := m.files[filename]; ok {
		return e, nil
	}

	data, err := os.ReadFile(filepath.Join(m.mazeDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMazeNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read maze file: %w", err)
	}

	config, g, err := Decode(id, ext, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	e := &entry{filename: filename, config: config, grid: g}
	m.files[filename] = e
	return e, nil
}

// Decode parses a maze document in the format named by ext. Plain text
// documents take their name from id.
func Decode(id, ext string, data []byte) (*MazeConfig, *grid.Grid, error) {
	var config MazeConfig
	switch ext {
	case ".txt":
		g, err := grid.Load(bytes.NewReader(data))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidMaze, err)
		}
		config = MazeConfig{Name: id, Layout: g.Layout()}
		return &config, g, nil
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to parse json: %v", ErrInvalidMaze, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to parse yaml: %v", ErrInvalidMaze, err)
		}
	default:
		return nil, nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidMaze, ext)
	}

	if config.Name == "" {
		config.Name = id
	}
	g, err := config.Grid()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidMaze, err)
	}
	return &config, g, nil
}

// ListMazes returns information about all loadable mazes. Files that fail
// to parse are skipped.
func (m *Manager) ListMazes() ([]*MazeInfo, error) {
	entries, err := os.ReadDir(m.mazeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read maze directory: %w", err)
	}

	var mazes []*MazeInfo
	seen := make(map[string]bool)

	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !isSupported(filepath.Ext(dirEntry.Name())) {
			continue
		}

		id := strings.TrimSuffix(dirEntry.Name(), filepath.Ext(dirEntry.Name()))
		if seen[id] {
			continue
		}

		e, err := m.load(id)
		if err != nil {
			// Skip invalid mazes
			continue
		}
		seen[id] = true

		mazes = append(mazes, &MazeInfo{
			Filename:    e.filename,
			MazeID:      id,
			Name:        e.config.Name,
			Description: e.config.Description,
			Rows:        e.grid.Rows(),
			Cols:        e.grid.Cols(),
			Walls:       e.grid.Count(grid.Wall),
			Fingerprint: e.grid.Fingerprint(),
		})
	}

	return mazes, nil
}

// SaveMaze validates config and writes it to <name>.json. A maze stored
// under the same id in another format is never shadowed; saving it fails
// with ErrMazeExists.
func (m *Manager) SaveMaze(name string, config *MazeConfig) error {
	id, err := mazeID(name)
	if err != nil {
		return err
	}
	if config == nil {
		return fmt.Errorf("%w: empty maze", ErrInvalidMaze)
	}

	g, err := config.Grid()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMaze, err)
	}
	if config.Name == "" {
		config.Name = id
	}

	filename := id + ".json"
	for _, ext := range Extensions {
		if ext == ".json" {
			continue
		}
		if _, err := os.Stat(filepath.Join(m.mazeDir, id+ext)); err == nil {
			return fmt.Errorf("%w: %s", ErrMazeExists, id+ext)
		}
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal maze: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.mazeDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write maze file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.files[filename] = &entry{filename: filename, config: config, grid: g}
	m.ids[id] = filename
	m.mu.Unlock()

	return nil
}

// RefreshCache drops every cached maze so the next load reads from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files = make(map[string]*entry)
	m.ids = make(map[string]string)
	return nil
}

// mazeID strips a supported extension and rejects names that would escape
// the maze directory.
func mazeID(name string) (string, error) {
	id := strings.TrimSpace(name)
	if ext := filepath.Ext(id); isSupported(ext) {
		id = strings.TrimSuffix(id, ext)
	}
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: bad maze name %q", ErrInvalidMaze, name)
	}
	return id, nil
}

func isSupported(ext string) bool {
	for _, supported := range Extensions {
		if ext == supported {
			return true
		}
	}
	return false
}
