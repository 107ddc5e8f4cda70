// Package server serves the lesson over HTTP and keeps one live session per
// open tab over a WebSocket.
//
// Routes:
//
//	GET /                  server-rendered page with the visitor's variables
//	GET /lesson.md         Markdown export with the visitor's variables
//	GET /healthz           liveness and open session count
//	GET /metrics           Prometheus metrics (with WithMetrics)
//	GET /_lesson/ws        live session
//	GET /_lesson/client.js thin client
//	GET /_lesson/lesson.css
//
// A visitor is identified by a session cookie. The page handler restores
// the visitor's variables from the snapshot store before rendering, so a
// reload shows the diagrams where they were left.
//
// # Live Sessions
//
// The client opens the WebSocket and sends a Hello frame carrying the
// session ID. The server builds a page over a fresh store restored from
// the snapshot, re-renders every region and starts the event loop:
//
//	client                         server
//	  Hello{version, session}  →
//	                           ←   Patches{seq: 0, every region}
//	  Event{hid, mousedown}    →   Dispatch → store writes → Flush
//	                           ←   Control{capture: [mousemove mouseup]}
//	                           ←   Patches{seq, dirty regions}
//	  Event{document, mousemove} →
//	                           ←   Patches{seq, dirty regions}
//
// Events are handled one at a time on the connection's goroutine, so the
// store has a single writer. Document-level listeners are announced with
// capture control frames whenever the set of listened event types
// changes, and are released when the connection closes.
package server
