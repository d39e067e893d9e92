package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/{$}"

	// Auth Routes
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteLogout   = "/logout"

	// Dashboard Routes
	RouteDashboard  = "/dashboard"
	RouteTasks      = "/dashboard/tasks"
	RouteTask       = "/dashboard/tasks/{id}"
	RouteTaskEdit   = "/dashboard/tasks/{id}/edit"
	RouteTaskToggle = "/dashboard/tasks/{id}/toggle"
	RouteTaskDelete = "/dashboard/tasks/{id}/delete"

	RouteHealth = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
