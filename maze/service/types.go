package service

import (
	"github.com/wricardo/maze-solver/maze/config"
	"github.com/wricardo/maze-solver/maze/grid"
	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/runs"
	"github.com/wricardo/maze-solver/maze/search"
)

// InlineMaze is the maze id recorded for layouts posted directly
const InlineMaze = "inline"

// Render formats
const (
	FormatText = "text"
	FormatDOT  = "dot"
)

// SolveOptions tunes a single solve
type SolveOptions struct {
	Start         *grid.Position `json:"start,omitempty"`
	Goal          *grid.Position `json:"goal,omitempty"`
	MaxExpansions int            `json:"max_expansions,omitempty"`
	Render        bool           `json:"render,omitempty"`
}

// MazeDetail is a maze document together with its grid statistics
type MazeDetail struct {
	MazeID      string             `json:"maze_id"`
	Maze        *config.MazeConfig `json:"maze"`
	Rows        int                `json:"rows"`
	Cols        int                `json:"cols"`
	Walls       int                `json:"walls"`
	FreeCells   int                `json:"free_cells"`
	TotalCoins  int                `json:"total_coins"`
	MinStepCost int                `json:"min_step_cost"`
	Start       grid.Position      `json:"start"`
	Goal        grid.Position      `json:"goal"`
	Fingerprint string             `json:"fingerprint"`
}

// SolveResult is a recorded run, optionally with the rendered path
type SolveResult struct {
	Run      *runs.Run `json:"run"`
	Rendered []string  `json:"rendered,omitempty"`
}

// CompareResult holds every strategy's outcome on one maze
type CompareResult struct {
	Maze        string           `json:"maze"`
	Fingerprint string           `json:"fingerprint"`
	Summaries   []report.Summary `json:"summaries"` // in search.Strategies order
	RunIDs      []string         `json:"run_ids"`
	// Best is the first strategy reaching the lowest cost; empty when no
	// strategy found a path.
	Best search.Strategy `json:"best,omitempty"`
	// Gaps lists, per strategy, how its outcome differs from the optimal one.
	Gaps map[search.Strategy][]report.Gap `json:"gaps"`
}
