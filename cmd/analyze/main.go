// Command analyze prints quick, human-readable statistics about the maze
// files in a maze directory. It summarizes dimensions, walls and coins,
// flags cells that cannot be reached from the start and compares what every
// search strategy pays and how much work it does.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/maze-solver/maze/config"
	"github.com/wricardo/maze-solver/maze/grid"
	"github.com/wricardo/maze-solver/maze/heuristic"
	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/search"
)

// maxListed caps how many unreachable cells are printed per maze
const maxListed = 5

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "print statistics about maze files",
		ArgsUsage: "[maze ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "maze-dir",
				Aliases: []string{"d"},
				Value:   "mazes",
				Usage:   "directory holding the maze files",
				Sources: cli.EnvVars("MAZE_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			catalog, err := config.NewManager(cmd.String("maze-dir"))
			if err != nil {
				return err
			}

			names := cmd.Args().Slice()
			if len(names) == 0 {
				mazes, err := catalog.ListMazes()
				if err != nil {
					return err
				}
				for _, maze := range mazes {
					names = append(names, maze.Filename)
				}
			}

			w := cmd.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			for _, name := range names {
				fmt.Fprintf(w, "\n=== Analyzing %s ===\n", name)
				g, err := catalog.LoadGrid(name)
				if err != nil {
					fmt.Fprintf(w, "Error loading maze: %v\n", err)
					continue
				}
				analyzeMaze(ctx, w, g)
			}
			return nil
		},
	}
}

func analyzeMaze(ctx context.Context, w io.Writer, g *grid.Grid) {
	fmt.Fprintf(w, "Grid Size: %d x %d\n", g.Rows(), g.Cols())
	fmt.Fprintf(w, "Start: %s, Goal: %s\n", g.Start(), g.Goal())
	fmt.Fprintf(w, "Distance: %d moves (8-way), %d moves (4-way)\n",
		heuristic.Chebyshev(g.Start(), g.Goal()), heuristic.Manhattan(g.Start(), g.Goal()))
	fmt.Fprintf(w, "Walls: %d, Free Cells: %d\n", g.Count(grid.Wall), g.Count(grid.Free))
	fmt.Fprintf(w, "Total Coins: %d, Cheapest Step: %d\n", g.TotalCoins(), g.MinStepCost())

	unreachable := unreachableCells(g)
	if len(unreachable) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d open cells cannot be reached from the start\n", len(unreachable))
		for i, p := range unreachable {
			if i >= maxListed {
				fmt.Fprintf(w, "   ... and %d more\n", len(unreachable)-maxListed)
				break
			}
			fmt.Fprintf(w, "   Unreachable: %s - '%c'\n", p, g.Cell(p).Char)
		}
	} else {
		fmt.Fprintf(w, "✅ Every open cell is reachable from the start\n")
	}

	var optimal float64
	for _, strategy := range search.Strategies {
		result, err := search.Solve(ctx, g, strategy)
		if err != nil {
			fmt.Fprintf(w, "%-9s error: %v\n", strategy.Label(), err)
			continue
		}
		if strategy == search.UniformCost {
			optimal = result.TotalCost
		}
		fmt.Fprintf(w, "%-9s cost %-5s moves %-4d expanded %-5d pushed %d\n",
			strategy.Label(), report.FormatCost(result.TotalCost),
			result.MoveCount(), result.Expanded, result.Pushed)
		if !result.Found {
			continue
		}
		if result.TotalCost > optimal {
			fmt.Fprintf(w, "   %s pays %s more than the cheapest path\n",
				strategy.Label(), report.FormatCost(result.TotalCost-optimal))
		}
	}
}

// unreachableCells lists open cells not connected to the start, in row-major
// order.
func unreachableCells(g *grid.Grid) []grid.Position {
	seen := map[grid.Position]bool{g.Start(): true}
	queue := []grid.Position{g.Start()}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.Neighbors(current) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	var unreachable []grid.Position
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			p := grid.Position{Row: row, Col: col}
			if !g.IsWall(p) && !seen[p] {
				unreachable = append(unreachable, p)
			}
		}
	}
	return unreachable
}
