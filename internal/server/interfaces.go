package server

// Server is the lifecycle contract of the application server.
//
// RunServer blocks until a stop signal arrives or the listener fails, and
// returns only after in-flight requests were drained by Shutdown. Callers
// release their own resources (the directory, background workers) after
// RunServer returns.
type Server interface {
	RunServer()
	Shutdown()
}
