// Package mcp exposes the maze solver to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON answer is formatted as text.
//
// MCP Tools:
//   - list_mazes: List mazes in the catalog
//   - get_maze: Show a maze with its statistics
//   - solve_maze: Solve a catalog maze with one strategy
//   - compare_strategies: Run every strategy and show the differences
//   - solve_layout: Solve an inline maze without saving it
//   - render_path: Draw a strategy's path as text or Graphviz DOT
//   - list_runs: List recorded runs
//
// Transport Modes:
//
// The server returned by GetMCPServer can be served over stdio with
// server.ServeStdio, or over HTTP by passing request bodies to HandleMessage.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
