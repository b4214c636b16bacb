// Package runs records solver runs so they can be listed and fetched later.
//
// A Run captures the maze, strategy, grid fingerprint and result summary of
// a single solve. Run IDs are UUIDs assigned on Record.
//
// The Manager keeps runs in memory. NewManagerWithPersistence adds a
// RunPersistence backend; FilePersistence stores one JSON file per run:
//
//	runs/
//	├── 3f2b1c9e-....json
//	└── 8d41a0f7-....json
//
// Get falls back to persistence for runs not in memory, and LoadPersisted
// restores every saved run at startup. CleanupExpired only trims memory.
package runs
