// Command batch solves a set of maze files with every search strategy and
// writes the coin totals, one row per maze, to a results file followed by
// notes on the time and space complexity of each strategy.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/maze-solver/maze/config"
	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/runs"
	"github.com/wricardo/maze-solver/maze/search"
	"github.com/wricardo/maze-solver/maze/service"
)

// defaultMazes are solved when no --maze flag is given
var defaultMazes = []string{"maze1.txt", "maze2.txt", "maze3.txt"}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "solve mazes with dijkstra, astar and greedy and record the coin totals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "maze-dir",
				Aliases: []string{"d"},
				Value:   "mazes",
				Usage:   "directory holding the maze files",
				Sources: cli.EnvVars("MAZE_DIR"),
			},
			&cli.StringSliceFlag{
				Name:    "maze",
				Aliases: []string{"m"},
				Usage:   "maze to solve, repeatable (default maze1.txt, maze2.txt, maze3.txt)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "results.txt",
				Usage:   "results file to write",
			},
			&cli.BoolFlag{
				Name:  "render",
				Usage: "print every strategy's path drawn on the maze",
			},
		},
		Action: runBatch,
	}
}

func runBatch(ctx context.Context, cmd *cli.Command) error {
	catalog, err := config.NewManager(cmd.String("maze-dir"))
	if err != nil {
		return err
	}
	mazeService := service.NewMazeService(catalog, runs.NewManager())

	names := cmd.StringSlice("maze")
	if len(names) == 0 {
		names = defaultMazes
	}

	rows, err := mazeService.Batch(ctx, names)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	stdout := cmd.Root().Writer
	if stdout == nil {
		stdout = os.Stdout
	}
	for _, row := range rows {
		fmt.Fprintln(stdout, report.FormatRow(row))
	}

	if cmd.Bool("render") {
		if err := renderPaths(ctx, stdout, mazeService, rows); err != nil {
			return err
		}
	}

	out := cmd.String("out")
	if err := writeResultsFile(out, rows); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nResults saved to %s\n", out)
	return nil
}

func renderPaths(ctx context.Context, w io.Writer, mazeService service.MazeService, rows []report.BatchRow) error {
	for _, row := range rows {
		if row.Err != nil {
			continue
		}
		for _, strategy := range search.Strategies {
			drawn, err := mazeService.Render(ctx, row.Maze, strategy, service.FormatText)
			if err != nil {
				return fmt.Errorf("render %s with %s: %w", row.Maze, strategy, err)
			}
			fmt.Fprintf(w, "\n%s - %s (cost %s)\n%s", row.Maze, strategy.Label(),
				report.FormatCost(row.Costs[strategy]), drawn)
		}
	}
	return nil
}

func writeResultsFile(path string, rows []report.BatchRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	if err := report.WriteResults(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write results: %w", err)
	}
	return f.Close()
}
