// Package config manages the maze catalog for the solver.
//
// Mazes live as files in a single directory. Three formats are accepted:
//   - .txt: the raw grid, one row per line (the maze id becomes its name)
//   - .json: {"name", "description", "layout": [rows...]}
//   - .yaml / .yml: the same document in YAML
//
// A maze is addressed by its id, the filename without extension. When
// several files share an id, lookup order is .txt, .json, .yaml, .yml and
// a file that fails to parse falls through to the next format. An id with
// an extension, such as "maze1.json", names exactly that file. SaveMaze
// writes .json and refuses an id already stored in another format.
//
// Usage:
//
//	manager, err := config.NewManager("mazes")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	g, err := manager.LoadGrid("maze1")
//	mazes, err := manager.ListMazes()
//
// Loaded mazes are cached; RefreshCache drops the cache after files change
// on disk. Errors wrap ErrMazeNotFound or ErrInvalidMaze, and parse failures
// also wrap the grid package's sentinel errors.
package config
