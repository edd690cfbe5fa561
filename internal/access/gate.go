// Package access decides whether a Session may enter a route.
package access

import (
	"strings"

	"fitwise/fitness-client/internal/domain"
)

// Route is a navigable view.
type Route string

const (
	RouteDashboard Route = "dashboard"
	RouteAdmin     Route = "admin"
	RouteDBManager Route = "db-manager"
	RouteLogin     Route = "login"
	RouteSignup    Route = "signup"
	RouteAboutUs   Route = "about-us"
	RouteUnknown   Route = ""
)

var paths = map[Route]string{
	RouteDashboard: "/",
	RouteAdmin:     "/admin",
	RouteDBManager: "/db-manager",
	RouteLogin:     "/login",
	RouteSignup:    "/signup",
	RouteAboutUs:   "/about-us",
}

// Path returns the URL path of r. Unknown routes map to the dashboard.
func (r Route) Path() string {
	if p, ok := paths[r]; ok {
		return p
	}
	return paths[RouteDashboard]
}

// RouteFromPath maps a URL path to its Route, or RouteUnknown.
func RouteFromPath(p string) Route {
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return RouteDashboard
	}
	for r, rp := range paths {
		if rp == p {
			return r
		}
	}
	return RouteUnknown
}

// privileged lists the role each guarded route requires.
var privileged = map[Route]domain.Role{
	RouteDashboard: domain.RoleUser,
	RouteAdmin:     domain.RoleAdmin,
	RouteDBManager: domain.RoleDBManager,
}

// RequiredRole returns the role needed to enter r, if r is guarded.
func RequiredRole(r Route) (domain.Role, bool) {
	role, ok := privileged[r]
	return role, ok
}

// Decision is the outcome of a gate check. Redirect is empty when Allowed.
type Decision struct {
	Allowed  bool
	Redirect Route
}

// Allow lets the navigation through.
func Allow() Decision { return Decision{Allowed: true} }

// DenyRedirect sends the navigation to target instead.
func DenyRedirect(target Route) Decision { return Decision{Redirect: target} }

// CanEnter evaluates the navigation rule table against a Session snapshot.
// It holds no state and must be consulted on every navigation.
func CanEnter(route Route, s domain.Session) Decision {
	if role, ok := privileged[route]; ok {
		if s.Role == role {
			return Allow()
		}
		return DenyRedirect(RouteLogin)
	}
	switch route {
	case RouteLogin, RouteSignup, RouteAboutUs:
		return Allow()
	}
	return DenyRedirect(RouteDashboard)
}

// Landing is where a freshly logged-in Session is sent.
func Landing(role domain.Role) Route {
	for route, required := range privileged {
		if required == role {
			return route
		}
	}
	return RouteLogin
}
