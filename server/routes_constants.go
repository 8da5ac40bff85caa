package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Web flow routes
	RouteStart    = "/start"
	RouteCallback = "/callback"

	// Machine-facing routes
	RouteRefresh = "/refresh"
)
