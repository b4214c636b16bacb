// Package api provides HTTP REST API handlers for the maze solver.
//
// Endpoints:
//
// Strategies:
//   - GET /api/strategies - List search strategies
//
// Maze Catalog:
//   - GET /api/mazes - List available mazes
//   - POST /api/mazes - Save a maze ({maze_id?, name, description?, layout})
//   - GET /api/mazes/{name} - Get a maze with grid statistics
//
// Solving:
//   - POST /api/mazes/{name}/solve - Solve with one strategy
//   - GET /api/mazes/{name}/compare - Run every strategy and report gaps
//   - GET /api/mazes/{name}/render?strategy=&format=text|dot - Draw the path
//   - POST /api/solve - Solve a posted layout without saving it
//   - POST /api/batch - Solve several mazes and build the results table
//
// Runs:
//   - GET /api/runs?maze= - List recorded runs
//   - GET /api/runs/{id} - Get one run
//
// Other:
//   - GET /ws?maze={name} - Subscribe to runs of a maze over WebSocket
//   - GET /health - Health check
//
// Solve requests accept an optional JSON body:
//
//	{
//	  "strategy": "dijkstra|astar|greedy",   // default dijkstra
//	  "start": {"row": 0, "col": 0},         // optional endpoint override
//	  "goal": {"row": 4, "col": 4},
//	  "max_expansions": 10000,               // optional budget
//	  "render": true                         // include the drawn path
//	}
//
// An unreachable goal is a successful response with "found": false and
// "total_cost": null.
//
// Error Handling:
//
// Errors are returned as JSON: {"error": "message"}. Unknown mazes and runs
// map to 404, malformed input to 400, saving a maze id already stored in
// another format to 409 and anything else to 500. Solve and batch bodies
// are optional; an empty body means every field takes its default.
package api
