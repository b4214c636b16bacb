package grid

import (
	"errors"
	"fmt"
)

// CellType classifies a grid cell
type CellType string

const (
	Free  CellType = "free"
	Wall  CellType = "wall"
	Start CellType = "start"
	Goal  CellType = "goal"

	// Marker characters in the text format
	StartMarker = 'S'
	GoalMarker  = 'G'
	WallMarker  = 'X'
	PathMarker  = '*'
)

var (
	ErrMalformedGrid = errors.New("malformed grid")
	ErrMissingMarker = errors.New("missing marker")
)

// Cell is a single grid cell
type Cell struct {
	Type CellType `json:"type"`
	Cost int      `json:"cost,omitempty"` // Coins collected when entering a free cell
	Char byte     `json:"-"`              // Source character, kept for rendering
}

// Passable reports whether a search may enter the cell
func (c Cell) Passable() bool {
	return c.Type != Wall
}

// Position identifies a cell by row and column
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns p shifted by the given offset
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// String renders a position as (row,col)
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Directions lists the eight neighbour offsets in expansion order:
// N, S, W, E, NW, NE, SW, SE.
var Directions = [8]Position{
	{-1, 0},
	{1, 0},
	{0, -1},
	{0, 1},
	{-1, -1},
	{-1, 1},
	{1, -1},
	{1, 1},
}

// MalformedGridError reports a structural problem in the source text
type MalformedGridError struct {
	Row    int // 1-based row number
	Reason string
}

func (e *MalformedGridError) Error() string {
	return fmt.Sprintf("malformed grid at row %d: %s", e.Row, e.Reason)
}

// Is lets errors.Is match ErrMalformedGrid
func (e *MalformedGridError) Is(target error) bool {
	return target == ErrMalformedGrid
}

// MissingMarkerError reports an absent start or goal marker
type MissingMarkerError struct {
	Marker byte
}

func (e *MissingMarkerError) Error() string {
	return fmt.Sprintf("missing marker '%c'", e.Marker)
}

// Is lets errors.Is match ErrMissingMarker
func (e *MissingMarkerError) Is(target error) bool {
	return target == ErrMissingMarker
}
