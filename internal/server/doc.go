// Package server exposes discovery runs over HTTP and WebSocket.
//
// Every request triggers one run through a Runner (normally
// *discovery.Engine) and answers with the run's result. Nothing is cached
// between requests and nothing is pushed unprompted.
//
// # Routes
//
//	GET /healthz                      {"status":"ok"}
//	GET /api/devices?timeout=N        LAN window of N seconds, then AP scan
//	GET /api/devices/lan?timeout=N    LAN only
//	GET /api/devices/ap               AP scan only
//	GET /ws                           WebSocket, one reply per request
//
// Replies share one shape:
//
//	{"run_id":"...","source":"all","devices":[{"id":"...","mac":"..."}]}
//
// An unparsable timeout is answered with 400 and {"error":"..."}.
//
// # WebSocket
//
// Clients send {"source":"all|lan|ap","timeout":N} as text messages. A
// missing timeout uses the configured default window.
// Requests on one connection run sequentially. The server pings every 54
// seconds and drops peers that stop answering within 60 seconds. Closing
// the connection aborts the run in progress.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{Port: 8080}, engine)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Blocks until SIGINT/SIGTERM or ctx is cancelled
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
