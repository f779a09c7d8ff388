package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/pmconsole/internal/client/guard"
	"github.com/dmitrijs2005/pmconsole/internal/client/models"
)

// enter navigates to path and reports whether the view may be shown.
// Redirects are announced to the operator.
func (a *App) enter(path string) bool {
	d := a.nav.Navigate(path)
	switch {
	case d.Defer:
		a.println("Checking session...")
		return false
	case d.RedirectTo == guard.PathLogin:
		a.println("Please log in first.")
		return false
	case d.RedirectTo != "":
		a.printf("Redirected to %s\n", d.RedirectTo)
		return false
	}
	return true
}

// Goto opens the view at path the way a typed URL would.
func (a *App) Goto(ctx context.Context, path string) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	d := a.nav.Navigate(path)
	if d.RedirectTo != "" {
		a.printf("Redirected to %s\n", d.RedirectTo)
		path = d.RedirectTo
	}
	if d.Defer {
		a.println("Checking session...")
		return nil
	}

	switch path {
	case guard.PathDashboard:
		return a.Dashboard(ctx)
	case guard.PathUsers:
		return a.Users(ctx, nil)
	case guard.PathProjects:
		return a.Projects(ctx, nil)
	case guard.PathProfile:
		return a.Profile(ctx)
	case guard.PathLogin:
		a.println("Use 'login' to sign in or 'register' to create an account.")
	case guard.PathRegister:
		return a.Register(ctx)
	default:
		a.printf("No view at %s. Known paths: %s\n", path, strings.Join(guard.Routes(), " "))
	}
	return nil
}

// Dashboard shows the user and project totals.
func (a *App) Dashboard(ctx context.Context) error {
	if !a.enter(guard.PathDashboard) {
		return nil
	}
	users, err := a.users.List(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	projects, err := a.projects.List(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}

	a.println("User/Project Management Dashboard")
	a.printf("  Users:    %d\n", len(users))
	a.printf("  Projects: %d\n", len(projects))
	counts := map[models.ProjectStatus]int{}
	for _, p := range projects {
		counts[p.Status]++
	}
	for _, st := range models.ProjectStatuses {
		a.printf("    %-12s %d\n", st, counts[st])
	}
	return nil
}
