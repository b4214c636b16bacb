package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wricardo/maze-solver/maze/config"
	"github.com/wricardo/maze-solver/maze/grid"
	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/runs"
	"github.com/wricardo/maze-solver/maze/search"
)

// mazeServiceImpl implements the MazeService interface
type mazeServiceImpl struct {
	catalog MazeCatalog
	runs    RunStore
}

// NewMazeService creates a new maze service instance
func NewMazeService(catalog MazeCatalog, runStore RunStore) MazeService {
	return &mazeServiceImpl{
		catalog: catalog,
		runs:    runStore,
	}
}

// ListMazes returns every loadable maze
func (s *mazeServiceImpl) ListMazes(ctx context.Context) ([]*config.MazeInfo, error) {
	return s.catalog.ListMazes()
}

// LoadMaze returns a maze document with its statistics
func (s *mazeServiceImpl) LoadMaze(ctx context.Context, name string) (*MazeDetail, error) {
	maze, err := s.catalog.LoadMaze(name)
	if err != nil {
		return nil, s.notFoundHint(name, err)
	}
	g, err := s.catalog.LoadGrid(name)
	if err != nil {
		return nil, err
	}

	return &MazeDetail{
		MazeID:      mazeID(name),
		Maze:        maze,
		Rows:        g.Rows(),
		Cols:        g.Cols(),
		Walls:       g.Count(grid.Wall),
		FreeCells:   g.Count(grid.Free),
		TotalCoins:  g.TotalCoins(),
		MinStepCost: g.MinStepCost(),
		Start:       g.Start(),
		Goal:        g.Goal(),
		Fingerprint: g.Fingerprint(),
	}, nil
}

// SaveMaze validates and stores a maze document
func (s *mazeServiceImpl) SaveMaze(ctx context.Context, name string, maze *config.MazeConfig) error {
	return s.catalog.SaveMaze(name, maze)
}

// Solve runs one strategy on a catalog maze and records the run
func (s *mazeServiceImpl) Solve(ctx context.Context, name string, strategy search.Strategy, opts SolveOptions) (*SolveResult, error) {
	g, err := s.catalog.LoadGrid(name)
	if err != nil {
		return nil, s.notFoundHint(name, err)
	}
	return s.solve(ctx, mazeID(name), g, strategy, opts)
}

// SolveLayout parses layout and solves it without touching the catalog
func (s *mazeServiceImpl) SolveLayout(ctx context.Context, layout []string, strategy search.Strategy, opts SolveOptions) (*SolveResult, error) {
	g, err := grid.Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidMaze, err)
	}
	return s.solve(ctx, InlineMaze, g, strategy, opts)
}

func (s *mazeServiceImpl) solve(ctx context.Context, maze string, g *grid.Grid, strategy search.Strategy, opts SolveOptions) (*SolveResult, error) {
	var options []search.Option
	if opts.Start != nil || opts.Goal != nil {
		start, goal := g.Start(), g.Goal()
		if opts.Start != nil {
			start = *opts.Start
		}
		if opts.Goal != nil {
			goal = *opts.Goal
		}
		options = append(options, search.WithEndpoints(start, goal))
	}
	if opts.MaxExpansions > 0 {
		options = append(options, search.WithMaxExpansions(opts.MaxExpansions))
	}

	result, err := search.Solve(ctx, g, strategy, options...)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", strategy, maze, err)
	}

	run, err := s.record(maze, g, result)
	if err != nil {
		return nil, err
	}

	solveResult := &SolveResult{Run: run}
	if opts.Render {
		solveResult.Rendered = report.Render(g, result.Path)
	}
	return solveResult, nil
}

// Compare runs every strategy concurrently on the same grid
func (s *mazeServiceImpl) Compare(ctx context.Context, name string) (*CompareResult, error) {
	g, err := s.catalog.LoadGrid(name)
	if err != nil {
		return nil, s.notFoundHint(name, err)
	}

	results, err := solveAll(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("compare on %s: %w", name, err)
	}

	maze := mazeID(name)
	compare := &CompareResult{
		Maze:        maze,
		Fingerprint: g.Fingerprint(),
		Gaps:        make(map[search.Strategy][]report.Gap),
	}

	bestCost := math.Inf(1)
	for _, result := range results {
		run, err := s.record(maze, g, result)
		if err != nil {
			return nil, err
		}
		compare.Summaries = append(compare.Summaries, run.Summary)
		compare.RunIDs = append(compare.RunIDs, run.ID)

		if result.Found && result.TotalCost < bestCost {
			bestCost = result.TotalCost
			compare.Best = result.Strategy
		}
	}

	// The uniform-cost outcome is the optimal reference
	reference := compare.Summaries[0]
	for _, summary := range compare.Summaries[1:] {
		gaps, err := report.DiffSummaries(reference, summary)
		if err != nil {
			return nil, fmt.Errorf("failed to diff %s against %s: %w", summary.Strategy, reference.Strategy, err)
		}
		compare.Gaps[summary.Strategy] = gaps
	}

	return compare, nil
}

// Batch solves each named maze with every strategy. A maze that fails to
// load or solve gets an error row; the rest of the batch continues.
func (s *mazeServiceImpl) Batch(ctx context.Context, names []string) ([]report.BatchRow, error) {
	rows := make([]report.BatchRow, 0, len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		row := report.BatchRow{Maze: name}
		g, err := s.catalog.LoadGrid(name)
		if err != nil {
			log.Printf("[BATCH] maze=%s error=%v", name, err)
			row.Err = err
			rows = append(rows, row)
			continue
		}

		results, err := solveAll(ctx, g)
		if err != nil {
			if ctx.Err() != nil {
				return rows, ctx.Err()
			}
			row.Err = err
			rows = append(rows, row)
			continue
		}

		row.Costs = make(map[search.Strategy]float64, len(results))
		for _, result := range results {
			row.Costs[result.Strategy] = result.TotalCost
		}
		row.Best = report.BestCost(row.Costs)
		log.Printf("[BATCH] maze=%s best=%s", name, report.FormatCost(row.Best))
		rows = append(rows, row)
	}

	return rows, nil
}

// Render solves a maze and returns the path drawn as text or Graphviz DOT
func (s *mazeServiceImpl) Render(ctx context.Context, name string, strategy search.Strategy, format string) (string, error) {
	g, err := s.catalog.LoadGrid(name)
	if err != nil {
		return "", s.notFoundHint(name, err)
	}

	result, err := search.Solve(ctx, g, strategy)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(format) {
	case "", FormatText:
		return strings.Join(report.Render(g, result.Path), "\n") + "\n", nil
	case FormatDOT:
		return report.RenderDOT(g, result.Path)
	}
	return "", fmt.Errorf("%w: unsupported render format %q", ErrInvalidRequest, format)
}

// GetRun returns a recorded run
func (s *mazeServiceImpl) GetRun(ctx context.Context, id string) (*runs.Run, error) {
	return s.runs.Get(id)
}

// ListRuns returns recorded runs, optionally for one maze
func (s *mazeServiceImpl) ListRuns(ctx context.Context, maze string) ([]*runs.Run, error) {
	return s.runs.List(maze), nil
}

func (s *mazeServiceImpl) record(maze string, g *grid.Grid, result search.Result) (*runs.Run, error) {
	summary := report.Summarize(result)
	log.Printf("[SOLVE] maze=%s strategy=%s cost=%s moves=%d expanded=%d",
		maze, result.Strategy, report.FormatCost(summary.TotalCost), summary.MoveCount, summary.Expanded)

	run, err := s.runs.Record(&runs.Run{
		Maze:        maze,
		Strategy:    result.Strategy,
		Fingerprint: g.Fingerprint(),
		Summary:     summary,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

// notFoundHint adds the available maze ids to a not-found error
func (s *mazeServiceImpl) notFoundHint(name string, err error) error {
	if !isNotFound(err) {
		return err
	}
	mazes, listErr := s.catalog.ListMazes()
	if listErr != nil || len(mazes) == 0 {
		return fmt.Errorf("%w. Use /api/mazes to list available mazes", err)
	}
	ids := make([]string, 0, len(mazes))
	for _, maze := range mazes {
		ids = append(ids, maze.MazeID)
	}
	return fmt.Errorf("%w. Available mazes: %v", err, ids)
}

// solveAll runs every strategy on g concurrently. Results come back in
// search.Strategies order.
func solveAll(ctx context.Context, g *grid.Grid) ([]search.Result, error) {
	results := make([]search.Result, len(search.Strategies))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, strategy := range search.Strategies {
		group.Go(func() error {
			result, err := search.Solve(groupCtx, g, strategy)
			if err != nil {
				return fmt.Errorf("%s: %w", strategy, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// mazeID strips a known file extension from a maze name
func mazeID(name string) string {
	for _, ext := range config.Extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
