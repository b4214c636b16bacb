package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/maze-solver/maze/config"
	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/runs"
	"github.com/wricardo/maze-solver/maze/search"
	"github.com/wricardo/maze-solver/maze/service"
)

// MockMazeService implements service.MazeService for testing
type MockMazeService struct {
	ListMazesFunc   func(ctx context.Context) ([]*config.MazeInfo, error)
	LoadMazeFunc    func(ctx context.Context, name string) (*service.MazeDetail, error)
	SaveMazeFunc    func(ctx context.Context, name string, maze *config.MazeConfig) error
	SolveFunc       func(ctx context.Context, name string, strategy search.Strategy, opts service.SolveOptions) (*service.SolveResult, error)
	SolveLayoutFunc func(ctx context.Context, layout []string, strategy search.Strategy, opts service.SolveOptions) (*service.SolveResult, error)
	CompareFunc     func(ctx context.Context, name string) (*service.CompareResult, error)
	BatchFunc       func(ctx context.Context, names []string) ([]report.BatchRow, error)
	RenderFunc      func(ctx context.Context, name string, strategy search.Strategy, format string) (string, error)
	GetRunFunc      func(ctx context.Context, id string) (*runs.Run, error)
	ListRunsFunc    func(ctx context.Context, maze string) ([]*runs.Run, error)
}

func (m *MockMazeService) ListMazes(ctx context.Context) ([]*config.MazeInfo, error) {
	if m.ListMazesFunc != nil {
		return m.ListMazesFunc(ctx)
	}
	return []*config.MazeInfo{}, nil
}

func (m *MockMazeService) LoadMaze(ctx context.Context, name string) (*service.MazeDetail, error) {
	if m.LoadMazeFunc != nil {
		return m.LoadMazeFunc(ctx, name)
	}
	return &service.MazeDetail{MazeID: name}, nil
}

func (m *MockMazeService) SaveMaze(ctx context.Context, name string, maze *config.MazeConfig) error {
	if m.SaveMazeFunc != nil {
		return m.SaveMazeFunc(ctx, name, maze)
	}
	return nil
}

func (m *MockMazeService) Solve(ctx context.Context, name string, strategy search.Strategy, opts service.SolveOptions) (*service.SolveResult, error) {
	if m.SolveFunc != nil {
		return m.SolveFunc(ctx, name, strategy, opts)
	}
	return &service.SolveResult{Run: &runs.Run{Maze: name, Strategy: strategy}}, nil
}

func (m *MockMazeService) SolveLayout(ctx context.Context, layout []string, strategy search.Strategy, opts service.SolveOptions) (*service.SolveResult, error) {
	if m.SolveLayoutFunc != nil {
		return m.SolveLayoutFunc(ctx, layout, strategy, opts)
	}
	return &service.SolveResult{Run: &runs.Run{Maze: service.InlineMaze, Strategy: strategy}}, nil
}

func (m *MockMazeService) Compare(ctx context.Context, name string) (*service.CompareResult, error) {
	if m.CompareFunc != nil {
		return m.CompareFunc(ctx, name)
	}
	return &service.CompareResult{Maze: name}, nil
}

func (m *MockMazeService) Batch(ctx context.Context, names []string) ([]report.BatchRow, error) {
	if m.BatchFunc != nil {
		return m.BatchFunc(ctx, names)
	}
	return nil, nil
}

func (m *MockMazeService) Render(ctx context.Context, name string, strategy search.Strategy, format string) (string, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, name, strategy, format)
	}
	return "", nil
}

func (m *MockMazeService) GetRun(ctx context.Context, id string) (*runs.Run, error) {
	if m.GetRunFunc != nil {
		return m.GetRunFunc(ctx, id)
	}
	return &runs.Run{ID: id}, nil
}

func (m *MockMazeService) ListRuns(ctx context.Context, maze string) ([]*runs.Run, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(ctx, maze)
	}
	return nil, nil
}

func doRequest(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthAndStrategies(t *testing.T) {
	server := NewServer(&MockMazeService{}, nil)

	w := doRequest(t, server, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", w.Code)
	}

	w = doRequest(t, server, "GET", "/api/strategies", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var strategies []struct {
		Name    string `json:"name"`
		Label   string `json:"label"`
		Optimal bool   `json:"optimal"`
	}
	decodeJSON(t, w, &strategies)
	if len(strategies) != 3 {
		t.Fatalf("Expected 3 strategies, got %d", len(strategies))
	}
	if strategies[1].Name != "astar" || strategies[1].Label != "A*" || !strategies[1].Optimal {
		t.Errorf("Unexpected strategy entry: %+v", strategies[1])
	}
	if strategies[2].Optimal {
		t.Error("Greedy should not be marked optimal")
	}
}

func TestMazeHandlers(t *testing.T) {
	var savedName string
	var savedMaze *config.MazeConfig

	mock := &MockMazeService{
		ListMazesFunc: func(ctx context.Context) ([]*config.MazeInfo, error) {
			return []*config.MazeInfo{{MazeID: "maze1", Filename: "maze1.txt", Rows: 3, Cols: 3}}, nil
		},
		LoadMazeFunc: func(ctx context.Context, name string) (*service.MazeDetail, error) {
			if name != "maze1" {
				return nil, fmt.Errorf("%w: %s", config.ErrMazeNotFound, name)
			}
			return &service.MazeDetail{MazeID: "maze1", Rows: 3, Cols: 3}, nil
		},
		SaveMazeFunc: func(ctx context.Context, name string, maze *config.MazeConfig) error {
			if len(maze.Layout) == 0 {
				return config.ErrInvalidMaze
			}
			if name == "taken" {
				return fmt.Errorf("%w: taken.txt", config.ErrMazeExists)
			}
			savedName, savedMaze = name, maze
			return nil
		},
	}
	server := NewServer(mock, nil)

	t.Run("list", func(t *testing.T) {
		w := doRequest(t, server, "GET", "/api/mazes", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		var mazes []config.MazeInfo
		decodeJSON(t, w, &mazes)
		if len(mazes) != 1 || mazes[0].MazeID != "maze1" {
			t.Errorf("Unexpected listing: %+v", mazes)
		}
	})

	t.Run("get", func(t *testing.T) {
		w := doRequest(t, server, "GET", "/api/mazes/maze1", nil)
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}

		w = doRequest(t, server, "GET", "/api/mazes/nope", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
		var body map[string]string
		decodeJSON(t, w, &body)
		if !strings.Contains(body["error"], "maze not found") {
			t.Errorf("Expected error message, got %v", body)
		}
	})

	t.Run("create", func(t *testing.T) {
		w := doRequest(t, server, "POST", "/api/mazes", map[string]interface{}{
			"name":   "fresh",
			"layout": []string{"S0", "0G"},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if savedName != "fresh" || len(savedMaze.Layout) != 2 {
			t.Errorf("Maze not passed to service: %s %+v", savedName, savedMaze)
		}

		w = doRequest(t, server, "POST", "/api/mazes", map[string]interface{}{"layout": []string{"SG"}})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 without a name, got %d", w.Code)
		}

		w = doRequest(t, server, "POST", "/api/mazes", map[string]interface{}{"name": "empty"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for an invalid maze, got %d", w.Code)
		}

		w = doRequest(t, server, "POST", "/api/mazes", map[string]interface{}{
			"name":   "taken",
			"layout": []string{"SG"},
		})
		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409 for an id stored in another format, got %d", w.Code)
		}
	})
}

func TestSolveHandlers(t *testing.T) {
	var gotStrategy search.Strategy
	var gotOpts service.SolveOptions

	mock := &MockMazeService{
		SolveFunc: func(ctx context.Context, name string, strategy search.Strategy, opts service.SolveOptions) (*service.SolveResult, error) {
			gotStrategy, gotOpts = strategy, opts
			if name == "walled" {
				return &service.SolveResult{Run: &runs.Run{
					Maze:     name,
					Strategy: strategy,
					Summary:  report.Summary{Strategy: strategy, TotalCost: math.Inf(1)},
				}}, nil
			}
			if name == "budget" {
				return nil, fmt.Errorf("solve: %w", search.ErrBudgetExceeded)
			}
			return &service.SolveResult{Run: &runs.Run{
				Maze:     name,
				Strategy: strategy,
				Summary:  report.Summary{Strategy: strategy, Found: true, TotalCost: 4, MoveCount: 3},
			}}, nil
		},
	}
	server := NewServer(mock, nil)

	t.Run("defaults to dijkstra", func(t *testing.T) {
		w := doRequest(t, server, "POST", "/api/mazes/maze1/solve", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if gotStrategy != search.UniformCost {
			t.Errorf("Expected dijkstra, got %s", gotStrategy)
		}
	})

	t.Run("strategy alias and options", func(t *testing.T) {
		w := doRequest(t, server, "POST", "/api/mazes/maze1/solve", map[string]interface{}{
			"strategy":       "a*",
			"render":         true,
			"max_expansions": 50,
			"start":          map[string]int{"row": 1, "col": 2},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if gotStrategy != search.AStar {
			t.Errorf("Expected astar, got %s", gotStrategy)
		}
		if !gotOpts.Render || gotOpts.MaxExpansions != 50 || gotOpts.Start == nil || gotOpts.Start.Col != 2 {
			t.Errorf("Options not forwarded: %+v", gotOpts)
		}

		var result struct {
			Run struct {
				Summary struct {
					TotalCost *float64 `json:"total_cost"`
					MoveCount int      `json:"move_count"`
				} `json:"summary"`
			} `json:"run"`
		}
		decodeJSON(t, w, &result)
		if result.Run.Summary.TotalCost == nil || *result.Run.Summary.TotalCost != 4 {
			t.Errorf("Expected total_cost 4, got %s", w.Body.String())
		}
	})

	t.Run("unreachable goal encodes null cost", func(t *testing.T) {
		w := doRequest(t, server, "POST", "/api/mazes/walled/solve", map[string]string{"strategy": "greedy"})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"total_cost":null`) {
			t.Errorf("Expected null total_cost, got %s", w.Body.String())
		}
	})

	t.Run("unknown strategy", func(t *testing.T) {
		w := doRequest(t, server, "POST", "/api/mazes/maze1/solve", map[string]string{"strategy": "bfs"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("budget exceeded", func(t *testing.T) {
		w := doRequest(t, server, "POST", "/api/mazes/budget/solve", map[string]string{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/mazes/maze1/solve", strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestSolveLayoutHandler(t *testing.T) {
	var gotLayout []string
	mock := &MockMazeService{
		SolveLayoutFunc: func(ctx context.Context, layout []string, strategy search.Strategy, opts service.SolveOptions) (*service.SolveResult, error) {
			gotLayout = layout
			if layout[0] == "bad" {
				return nil, fmt.Errorf("%w: missing start", config.ErrInvalidMaze)
			}
			return &service.SolveResult{Run: &runs.Run{Maze: service.InlineMaze, Strategy: strategy}}, nil
		},
	}
	server := NewServer(mock, nil)

	w := doRequest(t, server, "POST", "/api/solve", map[string]interface{}{
		"layout":   []string{"S0", "0G"},
		"strategy": "greedy",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(gotLayout) != 2 {
		t.Errorf("Layout not forwarded: %v", gotLayout)
	}

	w = doRequest(t, server, "POST", "/api/solve", map[string]interface{}{"strategy": "greedy"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without layout, got %d", w.Code)
	}

	w = doRequest(t, server, "POST", "/api/solve", map[string]interface{}{"layout": []string{"bad"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid layout, got %d", w.Code)
	}
}

func TestCompareAndRenderHandlers(t *testing.T) {
	mock := &MockMazeService{
		CompareFunc: func(ctx context.Context, name string) (*service.CompareResult, error) {
			return &service.CompareResult{
				Maze: name,
				Best: search.UniformCost,
				Gaps: map[search.Strategy][]report.Gap{
					search.Greedy: {{Field: "total_cost", From: "0", To: "5"}},
				},
			}, nil
		},
		RenderFunc: func(ctx context.Context, name string, strategy search.Strategy, format string) (string, error) {
			if format == service.FormatDOT {
				return "digraph maze {}", nil
			}
			if format != service.FormatText {
				return "", fmt.Errorf("%w: unsupported render format %q", service.ErrInvalidRequest, format)
			}
			return "S*G\n", nil
		},
	}
	server := NewServer(mock, nil)

	w := doRequest(t, server, "GET", "/api/mazes/maze1/compare", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var compare service.CompareResult
	decodeJSON(t, w, &compare)
	if compare.Best != search.UniformCost || len(compare.Gaps[search.Greedy]) != 1 {
		t.Errorf("Unexpected compare result: %+v", compare)
	}

	w = doRequest(t, server, "GET", "/api/mazes/maze1/render", nil)
	if w.Code != http.StatusOK || w.Body.String() != "S*G\n" {
		t.Errorf("Unexpected text render: %d %q", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("Unexpected content type %s", w.Header().Get("Content-Type"))
	}

	w = doRequest(t, server, "GET", "/api/mazes/maze1/render?format=dot&strategy=astar", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "digraph") {
		t.Errorf("Unexpected dot render: %d %q", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/vnd.graphviz") {
		t.Errorf("Unexpected content type %s", w.Header().Get("Content-Type"))
	}

	w = doRequest(t, server, "GET", "/api/mazes/maze1/render?format=svg", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown format, got %d", w.Code)
	}
}

func TestBatchHandler(t *testing.T) {
	var gotNames []string
	mock := &MockMazeService{
		ListMazesFunc: func(ctx context.Context) ([]*config.MazeInfo, error) {
			return []*config.MazeInfo{{MazeID: "maze1", Filename: "maze1.txt"}}, nil
		},
		BatchFunc: func(ctx context.Context, names []string) ([]report.BatchRow, error) {
			gotNames = names
			rows := []report.BatchRow{}
			for _, name := range names {
				if name == "missing.txt" {
					rows = append(rows, report.BatchRow{Maze: name, Err: errors.New("maze not found")})
					continue
				}
				rows = append(rows, report.BatchRow{
					Maze:  name,
					Costs: map[search.Strategy]float64{search.UniformCost: 0, search.AStar: 0, search.Greedy: math.Inf(1)},
					Best:  0,
				})
			}
			return rows, nil
		},
	}
	server := NewServer(mock, nil)

	w := doRequest(t, server, "POST", "/api/batch", map[string]interface{}{"mazes": []string{"maze1.txt", "missing.txt"}})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Rows []struct {
			Maze  string              `json:"maze"`
			Costs map[string]*float64 `json:"costs"`
			Error string              `json:"error"`
		} `json:"rows"`
		Results string `json:"results"`
	}
	decodeJSON(t, w, &resp)
	if len(resp.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(resp.Rows))
	}
	if resp.Rows[0].Costs["greedy"] != nil {
		t.Error("Expected null greedy cost")
	}
	if resp.Rows[1].Error == "" {
		t.Error("Expected error on missing maze row")
	}
	if !strings.HasPrefix(resp.Results, "Maze, Dijkstra, A*, Greedy, Best\nmaze1.txt, 0, 0, inf, 0\n") {
		t.Errorf("Unexpected results text: %q", resp.Results)
	}

	t.Run("defaults to every maze", func(t *testing.T) {
		w := doRequest(t, server, "POST", "/api/batch", map[string]interface{}{})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if len(gotNames) != 1 || gotNames[0] != "maze1.txt" {
			t.Errorf("Expected catalog mazes, got %v", gotNames)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		gotNames = nil
		w := doRequest(t, server, "POST", "/api/batch", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if len(gotNames) != 1 || gotNames[0] != "maze1.txt" {
			t.Errorf("Expected catalog mazes, got %v", gotNames)
		}

		// Chunked requests carry no length but still an empty body
		gotNames = nil
		req := httptest.NewRequest("POST", "/api/batch", bytes.NewReader(nil))
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200 for an unsized empty body, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(gotNames) != 1 {
			t.Errorf("Expected catalog mazes, got %v", gotNames)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/batch", strings.NewReader(`{"mazes": [`))
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestRunHandlers(t *testing.T) {
	mock := &MockMazeService{
		GetRunFunc: func(ctx context.Context, id string) (*runs.Run, error) {
			if id != "known" {
				return nil, runs.ErrRunNotFound
			}
			return &runs.Run{ID: id, Maze: "maze1"}, nil
		},
		ListRunsFunc: func(ctx context.Context, maze string) ([]*runs.Run, error) {
			return []*runs.Run{{ID: "known", Maze: maze}}, nil
		},
	}
	server := NewServer(mock, nil)

	w := doRequest(t, server, "GET", "/api/runs?maze=maze1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var list struct {
		Count int         `json:"count"`
		Runs  []*runs.Run `json:"runs"`
	}
	decodeJSON(t, w, &list)
	if list.Count != 1 || list.Runs[0].Maze != "maze1" {
		t.Errorf("Unexpected runs: %+v", list)
	}

	w = doRequest(t, server, "GET", "/api/runs/known", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	w = doRequest(t, server, "GET", "/api/runs/unknown", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestWebSocketHandlerValidation(t *testing.T) {
	mock := &MockMazeService{
		LoadMazeFunc: func(ctx context.Context, name string) (*service.MazeDetail, error) {
			return nil, config.ErrMazeNotFound
		},
	}
	server := NewServer(mock, nil)

	w := doRequest(t, server, "GET", "/ws", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without maze, got %d", w.Code)
	}

	w = doRequest(t, server, "GET", "/ws?maze=maze1", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without a hub, got %d", w.Code)
	}
}

// TestEndToEnd wires the real service against a temporary maze directory
func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "detour.txt"), []byte("S00\n050\n00G\n"), 0644); err != nil {
		t.Fatalf("Failed to write maze: %v", err)
	}
	catalog, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	server := NewServer(service.NewMazeService(catalog, runs.NewManager()), nil)

	w := doRequest(t, server, "POST", "/api/mazes/detour/solve", map[string]interface{}{"strategy": "greedy", "render": true})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result service.SolveResult
	decodeJSON(t, w, &result)
	if result.Run.Summary.TotalCost != 5 || result.Run.Summary.MoveCount != 2 {
		t.Errorf("Unexpected greedy result: %+v", result.Run.Summary)
	}
	if len(result.Rendered) != 3 || result.Rendered[1] != "0*0" {
		t.Errorf("Unexpected rendering: %v", result.Rendered)
	}

	w = doRequest(t, server, "GET", "/api/runs/"+result.Run.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected recorded run, got %d", w.Code)
	}

	w = doRequest(t, server, "GET", "/api/mazes/missing/compare", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}
