package search

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/wricardo/maze-solver/maze/grid"
	"github.com/wricardo/maze-solver/maze/heuristic"
)

var (
	ErrBudgetExceeded  = errors.New("expansion budget exceeded")
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

// how many pops between context checks
const cancelCheckInterval = 256

// Result is the outcome of a search
type Result struct {
	Strategy  Strategy
	Found     bool
	TotalCost float64 // +Inf when the goal is unreachable
	Path      []grid.Position
	Expanded  int // cells taken off the frontier and expanded
	Pushed    int // frontier entries created
}

// MoveCount returns the number of steps along the path
func (r Result) MoveCount() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

// Options defines parameters for the search.
type Options struct {
	Start         *grid.Position
	Goal          *grid.Position
	MaxExpansions int
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithEndpoints searches between the given cells instead of the grid's
// start and goal markers.
func WithEndpoints(start, goal grid.Position) Option {
	return func(options *Options) {
		options.Start = &start
		options.Goal = &goal
	}
}

// WithMaxExpansions stops the search with ErrBudgetExceeded after n
// expansions. Zero means no limit.
func WithMaxExpansions(n int) Option {
	return func(options *Options) { options.MaxExpansions = n }
}

// Solve runs the named strategy on g
func Solve(ctx context.Context, g *grid.Grid, strategy Strategy, options ...Option) (Result, error) {
	policy, err := PolicyFor(strategy, g)
	if err != nil {
		return Result{}, err
	}
	return Search(ctx, g, policy, options...)
}

// Search runs the best-first loop on g ordered by policy. The grid is only
// read, so concurrent searches may share it.
func Search(ctx context.Context, g *grid.Grid, policy Policy, options ...Option) (Result, error) {
	searchOptions := Options{}
	for _, option := range options {
		option(&searchOptions)
	}

	start, goal := g.Start(), g.Goal()
	if searchOptions.Start != nil {
		start = *searchOptions.Start
	}
	if searchOptions.Goal != nil {
		goal = *searchOptions.Goal
	}
	for _, p := range []grid.Position{start, goal} {
		if !g.InBounds(p) || g.IsWall(p) {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidEndpoint, p)
		}
	}

	result := Result{
		Strategy:  policy.Strategy(),
		TotalCost: math.Inf(1),
	}

	cols := g.Cols()
	index := func(p grid.Position) int { return p.Row*cols + p.Col }

	// best holds the cost a cell was expanded with; expanded marks
	// cells that have left the frontier at least once.
	best := make([]float64, g.Rows()*cols)
	expanded := make([]bool, len(best))
	for i := range best {
		best[i] = math.Inf(1)
	}

	stale := func(p grid.Position, cost float64) bool {
		i := index(p)
		if policy.Reopens() {
			return best[i] <= cost
		}
		return expanded[i]
	}

	var (
		arena []node
		open  frontier
		seq   uint64
	)
	push := func(n node) {
		arena = append(arena, n)
		state := State{
			Pos:       n.pos,
			Cost:      n.cost,
			Moves:     n.moves,
			Remaining: heuristic.Chebyshev(n.pos, goal),
		}
		heap.Push(&open, frontierItem{
			key:  policy.Key(state),
			tie:  policy.Tie(state),
			seq:  seq,
			node: len(arena) - 1,
		})
		seq++
		result.Pushed++
	}

	push(node{pos: start, parent: -1})

	for pops := 0; open.Len() > 0; pops++ {
		if pops%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}

		item := heap.Pop(&open).(frontierItem)
		current := arena[item.node]

		if stale(current.pos, current.cost) {
			continue
		}
		i := index(current.pos)
		best[i] = current.cost
		expanded[i] = true
		result.Expanded++

		if current.pos == goal {
			result.Found = true
			result.TotalCost = current.cost
			result.Path = reconstructPath(arena, item.node)
			return result, nil
		}

		if searchOptions.MaxExpansions > 0 && result.Expanded >= searchOptions.MaxExpansions {
			return result, fmt.Errorf("%w after %d expansions", ErrBudgetExceeded, result.Expanded)
		}

		for _, next := range g.Neighbors(current.pos) {
			cost := current.cost + float64(g.CellCost(next))
			if stale(next, cost) {
				continue
			}
			push(node{
				pos:    next,
				parent: item.node,
				cost:   cost,
				moves:  current.moves + 1,
			})
		}
	}

	return result, nil
}
