package checkserver

// registerRoutes wires the single check endpoint plus the small ambient
// surface (a /healthz liveness probe) every deployment needs regardless of how many
// filter chains are configured. Matches the teacher's routes.go pattern of
// one file listing every registered pattern.
func (s *Server) registerRoutes() {
	s.registerRouteFunc("GET /healthz", s.handleHealthz)
	s.registerRouteFunc("/", ChainMiddleware(s.handleCheck, loggingMiddleware, recoverMiddleware))
}
