package server

// Route path constants
const (
	RouteIndex     = "/{$}"
	RouteLogin     = "/login"
	RouteAPILogin  = "/api/login"
	RouteDashboard = "/dashboard"
	RouteHealth    = "/healthz"

	// Credential datasets, fetched by the HTTP dataset source
	RouteDatasets = "/datasets/{file}"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)
