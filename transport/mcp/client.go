package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/maze-solver/maze/config"
	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/runs"
	"github.com/wricardo/maze-solver/maze/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Maze Solver",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Maze Solver - MCP Interface

This is a thin client that proxies all requests to the REST API server.

MAZES:
Grids of characters. S is the start, G the goal, X a wall and a digit 0-9 is
the number of coins paid for entering that cell. Moves go to any of the eight
neighbouring cells. The cost of a path is the sum of the cells it enters.

STRATEGIES:
- dijkstra: uniform-cost search, always finds the cheapest path
- astar: A* with a Chebyshev based heuristic, also optimal
- greedy: greedy best-first toward the goal, fast but not optimal

AVAILABLE TOOLS:
- list_mazes: List mazes in the catalog
- get_maze: Show a maze with its statistics
- solve_maze: Solve a catalog maze with one strategy
- compare_strategies: Run all strategies on a maze and show the differences
- solve_layout: Solve a maze given inline without saving it
- render_path: Draw the path of a strategy as text or Graphviz DOT
- list_runs: List recorded runs`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func strategyProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Search strategy (default dijkstra)",
		"enum":        []string{"dijkstra", "astar", "greedy"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_mazes",
		Description: "List the mazes available in the catalog",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMazes)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_maze",
		Description: "Get a maze layout with size, wall count, coin total and endpoints",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze": stringProp("Maze name or file name"),
			},
			Required: []string{"maze"},
		},
	}, c.handleGetMaze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_maze",
		Description: "Solve a catalog maze with one strategy and report cost, moves and path",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze":     stringProp("Maze name or file name"),
				"strategy": strategyProp(),
				"render": map[string]interface{}{
					"type":        "boolean",
					"description": "Include the maze drawn with the path marked by *",
				},
			},
			Required: []string{"maze"},
		},
	}, c.handleSolveMaze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "compare_strategies",
		Description: "Run every strategy on a maze and show where they differ from dijkstra",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze": stringProp("Maze name or file name"),
			},
			Required: []string{"maze"},
		},
	}, c.handleCompare)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_layout",
		Description: "Solve a maze given inline, one string per row or a single newline separated string",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"layout": map[string]interface{}{
					"description": "Rows of the maze",
					"oneOf": []interface{}{
						map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
						map[string]interface{}{"type": "string"},
					},
				},
				"strategy": strategyProp(),
			},
			Required: []string{"layout"},
		},
	}, c.handleSolveLayout)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "render_path",
		Description: "Draw the path a strategy takes through a maze",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze":     stringProp("Maze name or file name"),
				"strategy": strategyProp(),
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Output format (default text)",
					"enum":        []string{service.FormatText, service.FormatDOT},
				},
			},
			Required: []string{"maze"},
		},
	}, c.handleRenderPath)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_runs",
		Description: "List recorded runs, optionally for one maze",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze": stringProp("Only show runs of this maze (optional)"),
			},
		},
	}, c.handleListRuns)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(data, &errResp) == nil {
			if msg, ok := errResp["error"]; ok {
				return nil, fmt.Errorf("%s", msg)
			}
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	return data, nil
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if result != nil {
		return json.Unmarshal(data, result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func mazePath(name string) string {
	return "/api/mazes/" + url.PathEscape(name)
}

// Tool handlers

func (c *Client) handleListMazes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var mazes []config.MazeInfo
	if err := c.apiCall(ctx, "GET", "/api/mazes", nil, &mazes); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available Mazes (%d):\n\n", len(mazes))
	for _, m := range mazes {
		fmt.Fprintf(&b, "- %s (%s): %dx%d, %d walls", m.MazeID, m.Filename, m.Rows, m.Cols, m.Walls)
		if m.Description != "" {
			fmt.Fprintf(&b, " - %s", m.Description)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maze, _ := arguments(request)["maze"].(string)
	if maze == "" {
		return mcp.NewToolResultError("maze is required"), nil
	}

	var detail service.MazeDetail
	if err := c.apiCall(ctx, "GET", mazePath(maze), nil, &detail); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMazeDetail(&detail)), nil
}

func (c *Client) handleSolveMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	maze, _ := args["maze"].(string)
	if maze == "" {
		return mcp.NewToolResultError("maze is required"), nil
	}
	strategy, _ := args["strategy"].(string)
	render, _ := args["render"].(bool)

	body := map[string]interface{}{
		"strategy": strategy,
		"render":   render,
	}

	var result service.SolveResult
	if err := c.apiCall(ctx, "POST", mazePath(maze)+"/solve", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSolveResult(&result)), nil
}

func (c *Client) handleCompare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	maze, _ := arguments(request)["maze"].(string)
	if maze == "" {
		return mcp.NewToolResultError("maze is required"), nil
	}

	var compare service.CompareResult
	if err := c.apiCall(ctx, "GET", mazePath(maze)+"/compare", nil, &compare); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatCompare(&compare)), nil
}

func (c *Client) handleSolveLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	layout, err := layoutArgument(args["layout"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	strategy, _ := args["strategy"].(string)

	body := map[string]interface{}{
		"layout":   layout,
		"strategy": strategy,
		"render":   true,
	}

	var result service.SolveResult
	if err := c.apiCall(ctx, "POST", "/api/solve", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSolveResult(&result)), nil
}

func (c *Client) handleRenderPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	maze, _ := args["maze"].(string)
	if maze == "" {
		return mcp.NewToolResultError("maze is required"), nil
	}

	query := url.Values{}
	if strategy, _ := args["strategy"].(string); strategy != "" {
		query.Set("strategy", strategy)
	}
	if format, _ := args["format"].(string); format != "" {
		query.Set("format", format)
	}
	path := mazePath(maze) + "/render"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	data, err := c.do(ctx, "GET", path, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (c *Client) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/runs"
	if maze, _ := arguments(request)["maze"].(string); maze != "" {
		path += "?maze=" + url.QueryEscape(maze)
	}

	var response struct {
		Count int         `json:"count"`
		Runs  []*runs.Run `json:"runs"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recorded Runs (%d):\n\n", response.Count)
	for _, run := range response.Runs {
		fmt.Fprintf(&b, "- %s %s %s: cost %s, %d moves (%s)\n",
			run.ID, run.Maze, run.Strategy.Label(),
			report.FormatCost(run.Summary.TotalCost), run.Summary.MoveCount,
			run.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// layoutArgument accepts either a list of rows or one newline separated string
func layoutArgument(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case string:
		lines := strings.Split(strings.TrimSpace(v), "\n")
		for i := range lines {
			lines[i] = strings.TrimRight(lines[i], "\r")
		}
		if len(lines) == 1 && lines[0] == "" {
			return nil, fmt.Errorf("layout is empty")
		}
		return lines, nil
	case []interface{}:
		lines := make([]string, 0, len(v))
		for i, row := range v {
			s, ok := row.(string)
			if !ok {
				return nil, fmt.Errorf("layout row %d is not a string", i+1)
			}
			lines = append(lines, s)
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("layout is empty")
		}
		return lines, nil
	case nil:
		return nil, fmt.Errorf("layout is required")
	default:
		return nil, fmt.Errorf("layout must be a string or an array of strings")
	}
}

// Formatting helpers

func formatMazeDetail(d *service.MazeDetail) string {
	var b strings.Builder
	name := d.MazeID
	if d.Maze != nil && d.Maze.Name != "" {
		name = d.Maze.Name
	}
	fmt.Fprintf(&b, "Maze: %s\n", name)
	if d.Maze != nil && d.Maze.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", d.Maze.Description)
	}
	fmt.Fprintf(&b, "Size: %dx%d\n", d.Rows, d.Cols)
	fmt.Fprintf(&b, "Walls: %d, Free cells: %d\n", d.Walls, d.FreeCells)
	fmt.Fprintf(&b, "Total coins: %d, Cheapest step: %d\n", d.TotalCoins, d.MinStepCost)
	fmt.Fprintf(&b, "Start: %s, Goal: %s\n", d.Start, d.Goal)
	if d.Maze != nil {
		b.WriteString("\n")
		for _, row := range d.Maze.Layout {
			b.WriteString(row)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatSolveResult(result *service.SolveResult) string {
	var b strings.Builder
	run := result.Run
	if run == nil {
		return "No run returned\n"
	}
	s := run.Summary

	fmt.Fprintf(&b, "Maze: %s\n", run.Maze)
	fmt.Fprintf(&b, "Strategy: %s\n", run.Strategy.Label())
	if !s.Found {
		b.WriteString("Goal unreachable\n")
	} else {
		fmt.Fprintf(&b, "Total cost: %s\n", report.FormatCost(s.TotalCost))
		fmt.Fprintf(&b, "Moves: %d\n", s.MoveCount)
		steps := make([]string, len(s.Path))
		for i, p := range s.Path {
			steps[i] = p.String()
		}
		fmt.Fprintf(&b, "Path: %s\n", strings.Join(steps, " -> "))
	}
	fmt.Fprintf(&b, "Expanded: %d\n", s.Expanded)
	fmt.Fprintf(&b, "Run: %s\n", run.ID)

	if len(result.Rendered) > 0 {
		b.WriteString("\n")
		for _, row := range result.Rendered {
			b.WriteString(row)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatCompare(compare *service.CompareResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Maze: %s\n\n", compare.Maze)
	for _, s := range compare.Summaries {
		fmt.Fprintf(&b, "%-9s cost %-5s moves %-4d expanded %d\n",
			s.Strategy.Label(), report.FormatCost(s.TotalCost), s.MoveCount, s.Expanded)
	}
	if compare.Best != "" {
		fmt.Fprintf(&b, "\nBest: %s\n", compare.Best.Label())
	}

	for _, s := range compare.Summaries {
		gaps := compare.Gaps[s.Strategy]
		if len(gaps) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s differs from Dijkstra:\n", s.Strategy.Label())
		for _, gap := range gaps {
			fmt.Fprintf(&b, "  %s: %v -> %v\n", gap.Field, gap.From, gap.To)
		}
	}
	return b.String()
}
