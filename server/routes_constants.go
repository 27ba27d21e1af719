package server

import "github.com/jrsteele09/go-keycloak-pkce/flow"

// Route path constants
const (
	RouteIndex     = "/"
	RouteLogin     = "/login"
	RouteAuthStart = "/auth/keycloak"
	RouteCallback  = flow.CallbackPath
	RouteProtected = "/protected"
	RouteLogout    = "/logout"
	RouteStatic    = "/static/"
)
