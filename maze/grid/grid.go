package grid

import (
	"bufio"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mr-tron/base58"
)

// Grid is an immutable rectangular maze
type Grid struct {
	cells [][]Cell
	rows  int
	cols  int
	start Position
	goal  Position
	// source rows, kept for rendering and fingerprinting
	layout []string
}

// Normalize trims trailing carriage returns from every row and drops
// trailing blank rows. Parse applies it before reading cells.
func Normalize(layout []string) []string {
	rows := make([]string, 0, len(layout))
	for _, row := range layout {
		rows = append(rows, strings.TrimRight(row, "\r"))
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// Parse builds a grid from text rows. Trailing carriage returns are trimmed
// and trailing blank rows are ignored.
func Parse(layout []string) (*Grid, error) {
	rows := Normalize(layout)
	if len(rows) == 0 {
		return nil, &MissingMarkerError{Marker: StartMarker}
	}

	width := len(rows[0])
	g := &Grid{
		cells:  make([][]Cell, len(rows)),
		rows:   len(rows),
		cols:   width,
		layout: rows,
	}

	foundStart, foundGoal := false, false
	for r, row := range rows {
		if len(row) != width {
			return nil, &MalformedGridError{
				Row:    r + 1,
				Reason: fmt.Sprintf("has %d cells, expected %d", len(row), width),
			}
		}

		g.cells[r] = make([]Cell, width)
		for c := 0; c < width; c++ {
			cell := classify(row[c])
			pos := Position{Row: r, Col: c}

			switch cell.Type {
			case Start:
				if foundStart {
					return nil, &MalformedGridError{
						Row:    r + 1,
						Reason: fmt.Sprintf("second start marker at %s, first at %s", pos, g.start),
					}
				}
				g.start, foundStart = pos, true
			case Goal:
				if foundGoal {
					return nil, &MalformedGridError{
						Row:    r + 1,
						Reason: fmt.Sprintf("second goal marker at %s, first at %s", pos, g.goal),
					}
				}
				g.goal, foundGoal = pos, true
			}

			g.cells[r][c] = cell
		}
	}

	if !foundStart {
		return nil, &MissingMarkerError{Marker: StartMarker}
	}
	if !foundGoal {
		return nil, &MissingMarkerError{Marker: GoalMarker}
	}

	return g, nil
}

// Load reads a grid from r, one row per line
func Load(r io.Reader) (*Grid, error) {
	var layout []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		layout = append(layout, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	return Parse(layout)
}

// LoadFile reads a grid from a plain text file
func LoadFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func classify(ch byte) Cell {
	switch {
	case ch == StartMarker:
		return Cell{Type: Start, Char: ch}
	case ch == GoalMarker:
		return Cell{Type: Goal, Char: ch}
	case ch == WallMarker:
		return Cell{Type: Wall, Char: ch}
	case ch >= '0' && ch <= '9':
		return Cell{Type: Free, Cost: int(ch - '0'), Char: ch}
	default:
		return Cell{Type: Free, Char: ch}
	}
}

// Rows returns the number of rows
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns
func (g *Grid) Cols() int { return g.cols }

// Start returns the start position
func (g *Grid) Start() Position { return g.start }

// Goal returns the goal position
func (g *Grid) Goal() Position { return g.goal }

// InBounds reports whether p lies inside the grid
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// Cell returns the cell at p. Out of bounds positions read as walls.
func (g *Grid) Cell(p Position) Cell {
	if !g.InBounds(p) {
		return Cell{Type: Wall, Char: WallMarker}
	}
	return g.cells[p.Row][p.Col]
}

// IsWall reports whether p is a wall
func (g *Grid) IsWall(p Position) bool {
	return g.InBounds(p) && g.cells[p.Row][p.Col].Type == Wall
}

// CellCost returns the coins collected by entering p. Start, goal and
// walls are worth nothing.
func (g *Grid) CellCost(p Position) int {
	if !g.InBounds(p) {
		return 0
	}
	return g.cells[p.Row][p.Col].Cost
}

// Find locates the start or goal marker
func (g *Grid) Find(marker byte) (Position, bool) {
	switch marker {
	case StartMarker:
		return g.start, true
	case GoalMarker:
		return g.goal, true
	}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c].Char == marker {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

// Neighbors returns the in-bounds, non-wall cells adjacent to p in
// Directions order
func (g *Grid) Neighbors(p Position) []Position {
	neighbors := make([]Position, 0, len(Directions))
	for _, d := range Directions {
		next := p.Add(d)
		if g.InBounds(next) && g.cells[next.Row][next.Col].Passable() {
			neighbors = append(neighbors, next)
		}
	}
	return neighbors
}

// MinStepCost returns the lowest coin value of any free cell, or 0 when
// the grid has no free cells
func (g *Grid) MinStepCost() int {
	lowest := -1
	for _, row := range g.cells {
		for _, cell := range row {
			if cell.Type == Free && (lowest == -1 || cell.Cost < lowest) {
				lowest = cell.Cost
			}
		}
	}
	if lowest < 0 {
		return 0
	}
	return lowest
}

// Count returns how many cells have the given type
func (g *Grid) Count(cellType CellType) int {
	count := 0
	for _, row := range g.cells {
		for _, cell := range row {
			if cell.Type == cellType {
				count++
			}
		}
	}
	return count
}

// TotalCoins sums the coin values of every free cell
func (g *Grid) TotalCoins() int {
	total := 0
	for _, row := range g.cells {
		for _, cell := range row {
			total += cell.Cost
		}
	}
	return total
}

// Layout returns a copy of the source rows
func (g *Grid) Layout() []string {
	layout := make([]string, len(g.layout))
	copy(layout, g.layout)
	return layout
}

// Fingerprint identifies the layout by its base58 encoded SHA-256 digest
func (g *Grid) Fingerprint() string {
	sum := sha256.Sum256([]byte(strings.Join(g.layout, "\n")))
	return base58.Encode(sum[:])
}

// String returns the source text
func (g *Grid) String() string {
	return strings.Join(g.layout, "\n")
}
