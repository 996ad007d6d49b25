// Package server exposes champr's control endpoints so a tray icon, script or
// second terminal can drive a running UI.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first).
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so a
// request with the wrong method gets a 405 from the mux.
//
// # Control Handler
//
// [ControlHandler] turns requests into orchestrator commands:
//
//	POST /toggle           show or hide the window
//	POST /apply?source=op.gg  write item sets for the current champion
//	GET  /status           connection and champion select state
//
// Commands go through the orchestrator inbox and are picked up on the next
// refresh cycle; the handler never touches UI state directly.
package server
