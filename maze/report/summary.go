package report

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/wricardo/maze-solver/maze/grid"
	"github.com/wricardo/maze-solver/maze/search"
)

// Summary is the reportable form of a search result
type Summary struct {
	Strategy  search.Strategy `json:"strategy"`
	Found     bool            `json:"found"`
	TotalCost float64         `json:"total_cost"` // +Inf when no path exists
	MoveCount int             `json:"move_count"`
	Path      []grid.Position `json:"path"`
	Expanded  int             `json:"expanded"`
}

// Summarize converts a search result into a Summary
func Summarize(result search.Result) Summary {
	path := result.Path
	if path == nil {
		path = []grid.Position{}
	}
	return Summary{
		Strategy:  result.Strategy,
		Found:     result.Found,
		TotalCost: result.TotalCost,
		MoveCount: result.MoveCount(),
		Path:      path,
		Expanded:  result.Expanded,
	}
}

type summaryJSON struct {
	Strategy  search.Strategy `json:"strategy"`
	Found     bool            `json:"found"`
	TotalCost *float64        `json:"total_cost"`
	MoveCount int             `json:"move_count"`
	Path      []grid.Position `json:"path"`
	Expanded  int             `json:"expanded"`
}

// MarshalJSON encodes an unreachable total as null since JSON has no infinity
func (s Summary) MarshalJSON() ([]byte, error) {
	out := summaryJSON{
		Strategy:  s.Strategy,
		Found:     s.Found,
		MoveCount: s.MoveCount,
		Path:      s.Path,
		Expanded:  s.Expanded,
	}
	if !math.IsInf(s.TotalCost, 0) && !math.IsNaN(s.TotalCost) {
		cost := s.TotalCost
		out.TotalCost = &cost
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null total back as +Inf
func (s *Summary) UnmarshalJSON(data []byte) error {
	var in summaryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Summary{
		Strategy:  in.Strategy,
		Found:     in.Found,
		TotalCost: math.Inf(1),
		MoveCount: in.MoveCount,
		Path:      in.Path,
		Expanded:  in.Expanded,
	}
	if in.TotalCost != nil {
		s.TotalCost = *in.TotalCost
	}
	return nil
}

// FormatCost prints a coin total; the unreachable sentinel prints as "inf"
func FormatCost(cost float64) string {
	if math.IsInf(cost, 1) {
		return "inf"
	}
	if cost == math.Trunc(cost) && math.Abs(cost) < 1e15 {
		return strconv.FormatInt(int64(cost), 10)
	}
	return strconv.FormatFloat(cost, 'f', -1, 64)
}
