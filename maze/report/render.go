package report

import (
	"github.com/wricardo/maze-solver/maze/grid"
)

// Render returns the grid layout with every path cell except the start and
// goal replaced by '*'.
func Render(g *grid.Grid, path []grid.Position) []string {
	rows := make([][]byte, g.Rows())
	for i, line := range g.Layout() {
		rows[i] = []byte(line)
	}

	for _, p := range path {
		if !g.InBounds(p) {
			continue
		}
		switch g.Cell(p).Type {
		case grid.Start, grid.Goal, grid.Wall:
			continue
		}
		rows[p.Row][p.Col] = grid.PathMarker
	}

	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = string(row)
	}
	return out
}
