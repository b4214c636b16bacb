// Package search finds minimum-coin routes between the start and goal of a grid.
//
// One best-first loop serves three strategies. Each strategy is a Policy that
// decides how frontier entries are ordered and whether a cell may be expanded
// more than once:
//
//   - dijkstra: uniform-cost search ordered by coins collected. Optimal.
//   - astar: coins collected plus a Chebyshev lower bound on the coins still
//     to collect. Optimal, usually expands fewer cells.
//   - greedy: Chebyshev distance to the goal alone. Fast, not optimal.
//
// Usage:
//
//	g, _ := grid.LoadFile("mazes/maze1.txt")
//	result, err := search.Solve(ctx, g, search.AStar)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.Found {
//		fmt.Println(result.TotalCost, len(result.Path)-1)
//	}
//
// An unreachable goal is not an error: Result.Found is false, TotalCost is
// +Inf and Path is nil. Errors are reserved for cancelled contexts, exhausted
// expansion budgets and invalid endpoints.
//
// Entries with equal priority are ordered by the policy's tie-breaker and then
// by insertion, so results are deterministic for a given grid.
package search
