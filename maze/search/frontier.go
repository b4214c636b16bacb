package search

import "github.com/wricardo/maze-solver/maze/grid"

// node is one arena slot: a cell reached along a specific route
type node struct {
	pos    grid.Position
	parent int // arena index, -1 for the origin
	cost   float64
	moves  int
}

// frontierItem points at an arena node. Items are never updated in place;
// stale ones are discarded when popped.
type frontierItem struct {
	key  float64
	tie  float64
	seq  uint64
	node int
}

// frontier is a min-heap ordered by (key, tie, seq)
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].key != f[j].key {
		return f[i].key < f[j].key
	}
	if f[i].tie != f[j].tie {
		return f[i].tie < f[j].tie
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(frontierItem))
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// reconstructPath walks parent links from the goal node back to the origin
func reconstructPath(arena []node, last int) []grid.Position {
	var path []grid.Position
	for i := last; i >= 0; i = arena[i].parent {
		path = append(path, arena[i].pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
