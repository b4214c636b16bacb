package report

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
	"github.com/wricardo/maze-solver/maze/grid"
)

const graphName = "maze"

const (
	dotColorStart   = "palegreen"
	dotColorGoal    = "gold"
	dotColorPath    = "lightskyblue"
	dotColorDefault = "whitesmoke"
	dotColorEdge    = "steelblue4"
)

// RenderDOT exports the grid as a Graphviz digraph. Every non-wall cell is a
// node pinned to its grid position; consecutive path cells are joined by
// highlighted edges.
func RenderDOT(g *grid.Grid, path []grid.Position) (string, error) {
	graph := gographviz.NewGraph()
	if err := graph.SetName(graphName); err != nil {
		return "", err
	}
	if err := graph.SetDir(true); err != nil {
		return "", err
	}
	for attr, value := range map[string]string{
		"rankdir": "TB",
		"nodesep": "0.3",
		"ranksep": "0.3",
	} {
		if err := graph.AddAttr(graphName, attr, value); err != nil {
			return "", err
		}
	}

	onPath := make(map[grid.Position]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			p := grid.Position{Row: r, Col: c}
			cell := g.Cell(p)
			if cell.Type == grid.Wall {
				continue
			}
			attrs := map[string]string{
				"label":     dotLabel(p, cell),
				"pos":       fmt.Sprintf(`"%d,%d!"`, c, -r),
				"shape":     "box",
				"style":     "filled",
				"fillcolor": dotNodeColor(cell, onPath[p]),
				"fontsize":  "10",
			}
			if err := graph.AddNode(graphName, dotNodeName(p), attrs); err != nil {
				return "", fmt.Errorf("failed to add node %v: %w", p, err)
			}
		}
	}

	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		if !graph.IsNode(dotNodeName(from)) || !graph.IsNode(dotNodeName(to)) {
			return "", fmt.Errorf("path step %d leaves the passable cells", i)
		}
		err := graph.AddEdge(dotNodeName(from), dotNodeName(to), true, map[string]string{
			"color":    dotColorEdge,
			"penwidth": "2",
		})
		if err != nil {
			return "", fmt.Errorf("failed to add edge %v -> %v: %w", from, to, err)
		}
	}

	return graph.String(), nil
}

func dotNodeName(p grid.Position) string {
	return fmt.Sprintf("r%dc%d", p.Row, p.Col)
}

func dotLabel(p grid.Position, cell grid.Cell) string {
	switch cell.Type {
	case grid.Start:
		return fmt.Sprintf(`"S %s"`, p)
	case grid.Goal:
		return fmt.Sprintf(`"G %s"`, p)
	}
	return fmt.Sprintf(`"%d %s"`, cell.Cost, p)
}

func dotNodeColor(cell grid.Cell, onPath bool) string {
	switch {
	case cell.Type == grid.Start:
		return dotColorStart
	case cell.Type == grid.Goal:
		return dotColorGoal
	case onPath:
		return dotColorPath
	}
	return dotColorDefault
}
