// Package grid provides the immutable maze model shared by every search strategy.
//
// A maze is a rectangular block of text where each character is one cell:
//   - S: the start cell (exactly one)
//   - G: the goal cell (exactly one)
//   - X: a wall
//   - 0-9: a free cell holding that many coins
//   - anything else: a free cell holding no coins
//
// Usage:
//
//	g, err := grid.LoadFile("mazes/maze1.txt")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	start := g.Start()
//	for _, next := range g.Neighbors(start) {
//		fmt.Println(next, g.CellCost(next))
//	}
//
// Errors:
//
// Parsing fails with *MalformedGridError when rows differ in length or a
// marker appears twice, and with *MissingMarkerError when S or G is absent.
// Both match ErrMalformedGrid and ErrMissingMarker through errors.Is.
//
// A Grid never changes after construction, so any number of searches may
// read it concurrently.
package grid
