// Package guard decides which console views the current session may open
// and keeps the operator's current view consistent with the session.
package guard

import (
	"slices"

	"github.com/dmitrijs2005/pmconsole/internal/client/models"
)

const (
	PathDashboard = "/"
	PathUsers     = "/users"
	PathProjects  = "/projects"
	PathProfile   = "/profile"
	PathLogin     = "/login"
	PathRegister  = "/register"
)

var (
	protected = []string{PathDashboard, PathUsers, PathProjects, PathProfile}
	authOnly  = []string{PathLogin, PathRegister}
)

// Routes lists every navigable path in display order.
func Routes() []string {
	return append(slices.Clone(protected), authOnly...)
}

func IsProtected(path string) bool { return slices.Contains(protected, path) }

func IsAuthOnly(path string) bool { return slices.Contains(authOnly, path) }

// ShowSidebar reports whether path is one of the dashboard views.
func ShowSidebar(path string) bool { return IsProtected(path) }

// Decision is the outcome of Decide. Exactly one of Allow, Defer or a
// non-empty RedirectTo holds.
type Decision struct {
	Allow      bool
	Defer      bool
	RedirectTo string
}

// Decide applies the routing rules to path for a session in state.
// Nothing is decided while the session is still Unknown.
func Decide(path string, state models.SessionState) Decision {
	if state == models.SessionUnknown {
		return Decision{Defer: true}
	}
	authenticated := state == models.SessionAuthenticated
	switch {
	case IsProtected(path) && !authenticated:
		return Decision{RedirectTo: PathLogin}
	case IsAuthOnly(path) && authenticated:
		return Decision{RedirectTo: PathDashboard}
	}
	return Decision{Allow: true}
}
