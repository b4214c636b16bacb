// Package report turns search results into summaries, renderings and the
// batch results artifact.
//
// Summary carries an unreachable total as +Inf in memory and as null in JSON.
// FormatCost prints it as "inf" in text output.
//
// Renderings:
//
//	lines := report.Render(g, result.Path)    // path cells shown as '*'
//	dot, err := report.RenderDOT(g, result.Path) // Graphviz digraph
//
// DiffSummaries compares two strategies field by field, and WriteResults
// produces the results.txt table with its complexity notes.
package report
