// Package service provides the business logic layer for the maze solver.
//
// The service package implements:
//   - Maze catalog access (list, load, save)
//   - Single-strategy solves on catalog mazes or posted layouts
//   - Side-by-side comparison of all strategies on a shared grid
//   - Batch runs that feed the results artifact
//   - Run recording and lookup
//
// Core Interfaces:
//
// MazeService is the main service interface used by the HTTP, WebSocket and
// MCP transports. MazeCatalog loads maze documents and RunStore records runs;
// config.Manager and runs.Manager implement them.
//
// Usage:
//
//	catalog, _ := config.NewManager("mazes")
//	mazeService := service.NewMazeService(catalog, runs.NewManager())
//
//	result, err := mazeService.Solve(ctx, "maze1", search.AStar, service.SolveOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Run.Summary.TotalCost)
//
// Errors wrap the sentinels of the config, runs, grid and search packages;
// IsNotFound and IsInvalid classify them for transports.
package service
