// Package ws implements the WebSocket hub for scupd.
//
// Hub manages a set of connected clients and broadcasts the current session
// report to all of them on a configurable interval (default 5s in production).
//
// New(engine, interval) creates a Hub.
// Hub.Run(ctx) starts the broadcast ticker — blocks until ctx is cancelled,
// then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, sends the current
// report immediately on connect when history exists, then streams updates on
// each tick. While no vector has been computed yet nothing is broadcast, so
// a fresh client may receive its first frame only after the first compute.
//
// Message format sent to clients:
//
//	{
//	  "event": "report",
//	  "data":  { /* same schema as GET /api/v1/report */ }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. WebSocket endpoint is mounted at /ws/stream by the server.
package ws
