// Package websocket provides live run notifications for the maze solver.
//
// Clients connect to /ws?maze=<id> and receive a JSON message every time a
// run is recorded for that maze:
//
//	{"maze": "maze1", "event": "solved", "run": {...}}
//
// A central Hub owns the subscriptions. Registration, removal and broadcast
// all pass through the hub's Run loop; every client has its own read and
// write goroutines. Stop disconnects all clients and ends the loop.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastRun(run)
package websocket
