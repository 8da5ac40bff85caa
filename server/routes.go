package server

import (
	"fmt"
	"log"
)

func (s *Server) initRoutes() {
	// Browser-facing flow routes. Failures must always land on an HTML page:
	// the caller is a popup window with no other error channel.
	s.RegisterRouteFunc("GET "+RouteStart, ChainMiddleware(s.StartHandler(), s.FlowMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.FlowMiddleware()...))

	// Trusted internal caller, no browser messaging involved.
	s.RegisterRouteFunc("POST "+RouteRefresh, ChainMiddleware(s.RefreshHandler(), s.FlowMiddleware()...))
}

func logError(method, path, error string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	errorString := Red + error + ResetColor
	log.Printf("[%-19s] %s %s\n", displayMethod, path, errorString)
}
