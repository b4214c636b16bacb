package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/wricardo/maze-solver/maze/config"
	"github.com/wricardo/maze-solver/maze/grid"
	"github.com/wricardo/maze-solver/maze/report"
	"github.com/wricardo/maze-solver/maze/runs"
	"github.com/wricardo/maze-solver/maze/search"
	"github.com/wricardo/maze-solver/maze/service"
	"github.com/wricardo/maze-solver/transport/websocket"
)

// maxBodyBytes caps request bodies; layouts are small
const maxBodyBytes = 1 << 20

// Server represents the REST API server
type Server struct {
	service service.MazeService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(mazeService service.MazeService, hub *websocket.Hub) *Server {
	s := &Server{
		service: mazeService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/strategies", s.handleListStrategies).Methods("GET")

	// Maze catalog
	api.HandleFunc("/mazes", s.handleListMazes).Methods("GET")
	api.HandleFunc("/mazes", s.handleCreateMaze).Methods("POST")
	api.HandleFunc("/mazes/{name}", s.handleGetMaze).Methods("GET")

	// Solving
	api.HandleFunc("/mazes/{name}/solve", s.handleSolve).Methods("POST")
	api.HandleFunc("/mazes/{name}/compare", s.handleCompare).Methods("GET")
	api.HandleFunc("/mazes/{name}/render", s.handleRender).Methods("GET")
	api.HandleFunc("/solve", s.handleSolveLayout).Methods("POST")
	api.HandleFunc("/batch", s.handleBatch).Methods("POST")

	// Runs
	api.HandleFunc("/runs", s.handleListRuns).Methods("GET")
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto status codes
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case service.IsConflict(err):
		respondError(w, http.StatusConflict, err.Error())
	case service.IsInvalid(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		respondError(w, http.StatusBadRequest, "Request body required")
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// decodeOptionalBody is decodeBody for endpoints where every field has a
// default. An empty body decodes as {}.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// parseStrategy resolves a strategy name; empty selects uniform-cost
func parseStrategy(w http.ResponseWriter, name string) (search.Strategy, bool) {
	if name == "" {
		return search.UniformCost, true
	}
	strategy, err := search.ParseStrategy(name)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return strategy, true
}

func (s *Server) broadcast(run *runs.Run) {
	if s.hub != nil {
		s.hub.BroadcastRun(run)
	}
}

// Strategy Handlers

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	type strategyInfo struct {
		Name    search.Strategy `json:"name"`
		Label   string          `json:"label"`
		Optimal bool            `json:"optimal"`
	}

	strategies := make([]strategyInfo, 0, len(search.Strategies))
	for _, strategy := range search.Strategies {
		strategies = append(strategies, strategyInfo{
			Name:    strategy,
			Label:   strategy.Label(),
			Optimal: strategy.Optimal(),
		})
	}

	respondJSON(w, http.StatusOK, strategies)
}

// Maze Handlers

func (s *Server) handleListMazes(w http.ResponseWriter, r *http.Request) {
	mazes, err := s.service.ListMazes(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if mazes == nil {
		mazes = []*config.MazeInfo{}
	}

	respondJSON(w, http.StatusOK, mazes)
}

func (s *Server) handleGetMaze(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	detail, err := s.service.LoadMaze(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCreateMaze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MazeID      string   `json:"maze_id,omitempty"`
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Layout      []string `json:"layout"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	id := req.MazeID
	if id == "" {
		id = req.Name
	}
	if id == "" {
		respondError(w, http.StatusBadRequest, "Maze name is required")
		return
	}

	maze := &config.MazeConfig{
		Name:        req.Name,
		Description: req.Description,
		Layout:      req.Layout,
	}
	if err := s.service.SaveMaze(r.Context(), id, maze); err != nil {
		respondServiceError(w, fmt.Errorf("failed to save maze: %w", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Maze saved successfully",
		"maze_id": id,
	})
}

// Solve Handlers

type solveRequest struct {
	Strategy      string         `json:"strategy,omitempty"`
	Start         *grid.Position `json:"start,omitempty"`
	Goal          *grid.Position `json:"goal,omitempty"`
	MaxExpansions int            `json:"max_expansions,omitempty"`
	Render        bool           `json:"render,omitempty"`
}

func (req solveRequest) options() service.SolveOptions {
	return service.SolveOptions{
		Start:         req.Start,
		Goal:          req.Goal,
		MaxExpansions: req.MaxExpansions,
		Render:        req.Render,
	}
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req solveRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}
	strategy, ok := parseStrategy(w, req.Strategy)
	if !ok {
		return
	}

	result, err := s.service.Solve(r.Context(), name, strategy, req.options())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(result.Run)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSolveLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		solveRequest
		Layout []string `json:"layout"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Layout) == 0 {
		respondError(w, http.StatusBadRequest, "Layout is required")
		return
	}
	strategy, ok := parseStrategy(w, req.Strategy)
	if !ok {
		return
	}

	result, err := s.service.SolveLayout(r.Context(), req.Layout, strategy, req.options())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(result.Run)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	compare, err := s.service.Compare(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	for _, id := range compare.RunIDs {
		if run, err := s.service.GetRun(r.Context(), id); err == nil {
			s.broadcast(run)
		}
	}

	respondJSON(w, http.StatusOK, compare)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	query := r.URL.Query()

	strategy, ok := parseStrategy(w, query.Get("strategy"))
	if !ok {
		return
	}
	format := strings.ToLower(query.Get("format"))
	if format == "" {
		format = service.FormatText
	}

	rendered, err := s.service.Render(r.Context(), name, strategy, format)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	contentType := "text/plain"
	if format == service.FormatDOT {
		contentType = "text/vnd.graphviz"
	}
	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(rendered)); err != nil {
		log.Printf("api: failed to write render response: %v", err)
	}
}

// batchRow is the JSON form of report.BatchRow; unreachable costs are null
type batchRow struct {
	Maze  string                       `json:"maze"`
	Costs map[search.Strategy]*float64 `json:"costs,omitempty"`
	Best  *float64                     `json:"best,omitempty"`
	Error string                       `json:"error,omitempty"`
}

func finite(cost float64) *float64 {
	if math.IsInf(cost, 0) {
		return nil
	}
	return &cost
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mazes []string `json:"mazes"`
	}
	if !decodeOptionalBody(w, r, &req) {
		return
	}

	names := req.Mazes
	if len(names) == 0 {
		mazes, err := s.service.ListMazes(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		for _, maze := range mazes {
			names = append(names, maze.Filename)
		}
	}

	rows, err := s.service.Batch(r.Context(), names)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var results bytes.Buffer
	if err := report.WriteResults(&results, rows); err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]batchRow, 0, len(rows))
	for _, row := range rows {
		entry := batchRow{Maze: row.Maze}
		if row.Err != nil {
			entry.Error = row.Err.Error()
		} else {
			entry.Costs = make(map[search.Strategy]*float64, len(row.Costs))
			for strategy, cost := range row.Costs {
				entry.Costs[strategy] = finite(cost)
			}
			entry.Best = finite(row.Best)
		}
		out = append(out, entry)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rows":    out,
		"results": results.String(),
	})
}

// Run Handlers

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	maze := r.URL.Query().Get("maze")

	list, err := s.service.ListRuns(r.Context(), maze)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if list == nil {
		list = []*runs.Run{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(list),
		"runs":  list,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	run, err := s.service.GetRun(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	maze := r.URL.Query().Get("maze")
	if maze == "" {
		http.Error(w, "maze parameter required", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "WebSocket not available", http.StatusServiceUnavailable)
		return
	}

	detail, err := s.service.LoadMaze(r.Context(), maze)
	if err != nil {
		http.Error(w, "Invalid maze", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, detail.MazeID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
