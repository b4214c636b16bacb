package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wricardo/maze-solver/maze/search"
)

// BatchRow is one maze's line in the results artifact
type BatchRow struct {
	Maze  string                      `json:"maze"`
	Costs map[search.Strategy]float64 `json:"-"`
	Best  float64                     `json:"-"`
	Err   error                       `json:"-"`
}

// BestCost returns the lowest cost across the row's strategies
func BestCost(costs map[search.Strategy]float64) float64 {
	best := math.Inf(1)
	for _, cost := range costs {
		if cost < best {
			best = cost
		}
	}
	return best
}

const complexityNotes = `
Time and Space Complexity:

Dijkstra:
  - Time: O(V + E log V)
  - Space: O(V)

A* Search:
  - Time: O(V log V) (depends on heuristic accuracy)
  - Space: O(V)

Greedy Best-First Search:
  - Time: O(V log V)
  - Space: O(V)
  - Note: Does not guarantee optimal solution (coin total may be higher).

V = Total number of accessible (non-wall) cells in the maze.
E = Total number of possible valid movements between cells. Each cell can have up to 8 connections (including diagonal directions).
`

// Header returns the column header of the results artifact
func Header() string {
	labels := []string{"Maze"}
	for _, strategy := range search.Strategies {
		labels = append(labels, strategy.Label())
	}
	labels = append(labels, "Best")
	return strings.Join(labels, ", ")
}

// FormatRow renders a row the way it appears in the results artifact
func FormatRow(row BatchRow) string {
	if row.Err != nil {
		return fmt.Sprintf("%s, error: %v", row.Maze, row.Err)
	}
	fields := []string{row.Maze}
	for _, strategy := range search.Strategies {
		cost, ok := row.Costs[strategy]
		if !ok {
			cost = math.Inf(1)
		}
		fields = append(fields, FormatCost(cost))
	}
	fields = append(fields, FormatCost(row.Best))
	return strings.Join(fields, ", ")
}

// WriteResults writes the header, one line per row in order, then the
// complexity notes.
func WriteResults(w io.Writer, rows []BatchRow) error {
	var b strings.Builder
	b.WriteString(Header())
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(FormatRow(row))
		b.WriteString("\n")
	}
	b.WriteString(complexityNotes)

	_, err := io.WriteString(w, b.String())
	return err
}
