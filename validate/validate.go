// Command validate checks the maze files in a maze directory (first
// argument, then $MAZE_DIR, then ./mazes). It checks:
//   - file structure (.txt rows, or .json/.yaml documents with a layout)
//   - consistent row width and allowed characters (S, G, X, 0-9, '.')
//   - exactly one start (S) and one goal (G)
//   - reachability: the goal can be reached from the start
package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/wricardo/maze-solver/maze/config"
	"github.com/wricardo/maze-solver/maze/grid"
	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/search"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// readLayout extracts the layout rows from a maze file of any supported format
func readLayout(filePath string) (*config.MazeConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".txt":
		var layout []string
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			layout = append(layout, scanner.Text())
		}
		return &config.MazeConfig{Layout: layout}, scanner.Err()
	case ".json", ".yaml", ".yml":
		// JSON is a subset of YAML, so one decoder covers every document format
		var maze config.MazeConfig
		if err := yaml.Unmarshal(data, &maze); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", strings.TrimPrefix(ext, "."), err)
		}
		return &maze, nil
	}
	return nil, fmt.Errorf("unsupported file type %q", ext)
}

// validateMaze loads and validates a single maze file. It performs
// structural checks, marker validation and a reachability search.
func validateMaze(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	maze, err := readLayout(filePath)
	if err != nil {
		result.fail("Failed to load maze: %v", err)
		return result
	}

	rows := grid.Normalize(maze.Layout)
	if len(rows) == 0 {
		result.fail("Layout is empty")
		return result
	}

	width := len(rows[0])
	startCount, goalCount := 0, 0
	for i, row := range rows {
		if len(row) != width {
			result.fail("Inconsistent grid width at row %d: expected %d, got %d", i+1, width, len(row))
		}
		for j := 0; j < len(row); j++ {
			char := row[j]
			switch {
			case char == grid.StartMarker:
				startCount++
			case char == grid.GoalMarker:
				goalCount++
			case char == grid.WallMarker, char == '.', char >= '0' && char <= '9':
			default:
				result.fail("Invalid character '%c' at position [%d,%d]", char, i+1, j+1)
			}
		}
	}

	if startCount != 1 {
		result.fail("Must have exactly 1 start (S), found %d", startCount)
	}
	if goalCount != 1 {
		result.fail("Must have exactly 1 goal (G), found %d", goalCount)
	}

	if !result.Valid {
		return result
	}

	g, err := maze.Grid()
	if err != nil {
		result.fail("Invalid grid: %v", err)
		return result
	}

	reachability := validateReachability(context.Background(), g)
	if !reachability.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, reachability.Errors...)

	if result.Valid {
		if maze.Name != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", maze.Name))
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", g.Rows(), g.Cols()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Start: %s, Goal: %s", g.Start(), g.Goal()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Walls: %d", g.Count(grid.Wall)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Coins on board: %d", g.TotalCoins()))
	}

	return result
}

// validateReachability runs a uniform-cost search from start to goal and
// reports the cheapest cost when the goal is reachable.
func validateReachability(ctx context.Context, g *grid.Grid) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	found, err := search.Solve(ctx, g, search.UniformCost)
	if err != nil {
		result.fail("Cannot validate reachability: %v", err)
		return result
	}
	if !found.Found {
		result.fail("Reachability failure: goal %s unreachable from start %s (%d cells explored)",
			g.Goal(), g.Start(), found.Expanded)
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Reachability: goal reached in %d moves for %s coins",
		found.MoveCount(), report.FormatCost(found.TotalCost)))
	return result
}

// mazeFiles lists every supported maze file in dir
func mazeFiles(dir string) ([]string, error) {
	var files []string
	for _, ext := range config.Extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// main validates every maze file, printing a concise report and exiting
// with non-zero status if any are invalid.
func main() {
	mazeDir := os.Getenv("MAZE_DIR")
	if len(os.Args) > 1 {
		mazeDir = os.Args[1]
	}
	if mazeDir == "" {
		mazeDir = "mazes"
	}

	files, err := mazeFiles(mazeDir)
	if err != nil {
		fmt.Printf("Error finding maze files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No maze files found in %s\n", mazeDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateMaze(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All mazes are valid!")
	} else {
		fmt.Println("❌ Some mazes have errors")
		os.Exit(1)
	}
}
