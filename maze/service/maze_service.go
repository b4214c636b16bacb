package service

import (
	"context"

	"github.com/wricardo/maze-solver/maze/config"
	"github.com/wricardo/maze-solver/maze/grid"
	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/runs"
	"github.com/wricardo/maze-solver/maze/search"
)

// MazeService defines all solver operations
type MazeService interface {
	// Catalog
	ListMazes(ctx context.Context) ([]*config.MazeInfo, error)
	LoadMaze(ctx context.Context, name string) (*MazeDetail, error)
	SaveMaze(ctx context.Context, name string, maze *config.MazeConfig) error

	// Solving
	Solve(ctx context.Context, name string, strategy search.Strategy, opts SolveOptions) (*SolveResult, error)
	SolveLayout(ctx context.Context, layout []string, strategy search.Strategy, opts SolveOptions) (*SolveResult, error)
	Compare(ctx context.Context, name string) (*CompareResult, error)
	Batch(ctx context.Context, names []string) ([]report.BatchRow, error)
	Render(ctx context.Context, name string, strategy search.Strategy, format string) (string, error)

	// Runs
	GetRun(ctx context.Context, id string) (*runs.Run, error)
	ListRuns(ctx context.Context, maze string) ([]*runs.Run, error)
}

// MazeCatalog loads and stores maze documents
type MazeCatalog interface {
	LoadMaze(name string) (*config.MazeConfig, error)
	LoadGrid(name string) (*grid.Grid, error)
	ListMazes() ([]*config.MazeInfo, error)
	SaveMaze(name string, maze *config.MazeConfig) error
}

// RunStore records solver runs
type RunStore interface {
	Record(run *runs.Run) (*runs.Run, error)
	Get(id string) (*runs.Run, error)
	List(maze string) []*runs.Run
}
