package report

import (
	"strings"

	"github.com/r3labs/diff/v3"
)

// Gap is one field on which two summaries disagree
type Gap struct {
	Field string      `json:"field"`
	From  interface{} `json:"from"`
	To    interface{} `json:"to"`
}

// comparison holds the fields worth diffing between two strategies.
// Costs are pre-formatted so an unreachable goal compares as "inf".
type comparison struct {
	Found     bool   `diff:"found"`
	TotalCost string `diff:"total_cost"`
	MoveCount int    `diff:"move_count"`
	Path      string `diff:"path"`
}

func compare(s Summary) comparison {
	steps := make([]string, len(s.Path))
	for i, p := range s.Path {
		steps[i] = p.String()
	}
	return comparison{
		Found:     s.Found,
		TotalCost: FormatCost(s.TotalCost),
		MoveCount: s.MoveCount,
		Path:      strings.Join(steps, " "),
	}
}

// DiffSummaries lists the fields that differ between a and b, in field order.
// Identical outcomes produce an empty slice.
func DiffSummaries(a, b Summary) ([]Gap, error) {
	changelog, err := diff.Diff(compare(a), compare(b))
	if err != nil {
		return nil, err
	}

	gaps := make([]Gap, 0, len(changelog))
	for _, field := range []string{"found", "total_cost", "move_count", "path"} {
		for _, change := range changelog {
			if len(change.Path) == 0 || change.Path[0] != field {
				continue
			}
			gaps = append(gaps, Gap{Field: field, From: change.From, To: change.To})
		}
	}
	return gaps, nil
}
