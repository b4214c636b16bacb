package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/maze-solver/maze/grid"
)

// Strategy names a search policy
type Strategy string

const (
	UniformCost Strategy = "dijkstra"
	AStar       Strategy = "astar"
	Greedy      Strategy = "greedy"
)

// Strategies lists every strategy in reporting order
var Strategies = []Strategy{UniformCost, AStar, Greedy}

var ErrUnknownStrategy = errors.New("unknown strategy")

// Label returns the display name used in reports
func (s Strategy) Label() string {
	switch s {
	case UniformCost:
		return "Dijkstra"
	case AStar:
		return "A*"
	case Greedy:
		return "Greedy"
	}
	return string(s)
}

// Optimal reports whether the strategy guarantees the minimum coin total
func (s Strategy) Optimal() bool {
	return s == UniformCost || s == AStar
}

// ParseStrategy resolves a strategy name or one of its aliases
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dijkstra", "ucs", "uniform", "uniform-cost":
		return UniformCost, nil
	case "astar", "a*", "a-star":
		return AStar, nil
	case "greedy", "best-first", "greedy-best-first", "gbfs":
		return Greedy, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// State describes a frontier candidate
type State struct {
	Pos       grid.Position
	Cost      float64 // coins collected so far
	Moves     int     // steps taken so far
	Remaining int     // Chebyshev distance to the goal
}

// Policy orders the frontier for one strategy
type Policy interface {
	Strategy() Strategy
	// Key is the primary frontier priority; lower pops first.
	Key(s State) float64
	// Tie breaks equal keys; lower pops first.
	Tie(s State) float64
	// Reopens reports whether a cell may be expanded again when reached
	// with strictly fewer coins. Policies that do not reopen expand each
	// cell at most once.
	Reopens() bool
}

// PolicyFor builds the policy for strategy on g
func PolicyFor(strategy Strategy, g *grid.Grid) (Policy, error) {
	switch strategy {
	case UniformCost:
		return uniformCost{}, nil
	case AStar:
		return aStar{weight: float64(g.MinStepCost())}, nil
	case Greedy:
		return greedy{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
}

// uniformCost orders by coins paid, not moves taken. A move-count order
// returns the shortest path, which is not the cheapest once cells cost
// different amounts.
type uniformCost struct{}

func (uniformCost) Strategy() Strategy  { return UniformCost }
func (uniformCost) Key(s State) float64 { return s.Cost }
func (uniformCost) Tie(s State) float64 { return float64(s.Moves) }
func (uniformCost) Reopens() bool       { return false }

// zeroCostCells is how many cells on a simple path may be entered for free
// regardless of the grid: the start and goal markers.
const zeroCostCells = 2

// aStar scales Chebyshev distance by the cheapest free cell. Every step but
// the marker cells enters a free cell, so the estimate never overstates the
// coins left to collect. Raw Chebyshev distance would count a coin per step
// and overestimate on grids with free cells, losing the cheapest path.
type aStar struct {
	weight float64
}

func (aStar) Strategy() Strategy { return AStar }
func (a aStar) Key(s State) float64 {
	steps := s.Remaining - zeroCostCells
	if steps < 0 {
		steps = 0
	}
	return s.Cost + a.weight*float64(steps)
}
func (aStar) Tie(s State) float64 { return float64(s.Remaining) }
func (aStar) Reopens() bool       { return true }

type greedy struct{}

func (greedy) Strategy() Strategy  { return Greedy }
func (greedy) Key(s State) float64 { return float64(s.Remaining) }
func (greedy) Tie(s State) float64 { return s.Cost }
func (greedy) Reopens() bool       { return false }
