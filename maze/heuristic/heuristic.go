// Package heuristic provides grid distance estimates.
package heuristic

import "github.com/wricardo/maze-solver/maze/grid"

// Chebyshev returns max(|dr|, |dc|), the fewest moves between a and b when
// diagonal steps are allowed
func Chebyshev(a, b grid.Position) int {
	dr := abs(a.Row - b.Row)
	dc := abs(a.Col - b.Col)
	if dr > dc {
		return dr
	}
	return dc
}

// Manhattan returns |dr| + |dc|, the fewest moves between a and b with
// orthogonal steps only
func Manhattan(a, b grid.Position) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
