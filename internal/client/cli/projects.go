package cli

import (
	"context"
	"io"
	"strings"

	"github.com/dmitrijs2005/pmconsole/internal/client/forms"
	"github.com/dmitrijs2005/pmconsole/internal/client/guard"
	"github.com/dmitrijs2005/pmconsole/internal/client/models"
)

const projectsUsage = "Usage: projects [list | search [query] | clear | show <id> | add | edit <id> | delete <id>]"

// Projects dispatches the projects view subcommands. Without arguments it
// lists.
func (a *App) Projects(ctx context.Context, args []string) error {
	if !a.enter(guard.PathProjects) {
		return nil
	}
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list", "ls":
		return a.listProjects(ctx)
	case "search", "find":
		if len(a.projects.Cached()) == 0 {
			if _, err := a.projects.List(ctx); err != nil {
				return a.fail(ctx, err)
			}
		}
		a.projectSearch.SetItems(a.projects.Cached())
		runSearch(ctx, a, a.projectSearch, args, a.printProjects)
		return nil
	case "clear":
		a.projectSearch.SetQuery("")
		a.projectSearch.Flush()
		return a.listProjects(ctx)
	case "show":
		id, ok := a.idArg(args)
		if !ok {
			return nil
		}
		p, err := a.projects.GetByID(ctx, id)
		if err != nil {
			return a.fail(ctx, err)
		}
		a.write(func(w io.Writer) { renderProject(w, p) })
		return nil
	case "add", "new":
		return a.saveProject(ctx, "", forms.Project{})
	case "edit":
		id, ok := a.idArg(args)
		if !ok {
			return nil
		}
		current, found := a.projects.Find(id)
		if !found {
			var err error
			if current, err = a.projects.GetByID(ctx, id); err != nil {
				return a.fail(ctx, err)
			}
		}
		return a.saveProject(ctx, id, forms.FromProject(current))
	case "delete", "rm":
		id, ok := a.idArg(args)
		if !ok {
			return nil
		}
		return a.deleteProject(ctx, id)
	}
	a.println(projectsUsage)
	return nil
}

func (a *App) printProjects(projects []models.Project) {
	a.write(func(w io.Writer) { renderProjects(w, projects) })
}

func (a *App) listProjects(ctx context.Context) error {
	projects, err := a.projects.List(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.projectSearch.SetItems(projects)
	if q := a.projectSearch.DebouncedQuery(); q != "" {
		a.printf("Filtered by %q ('projects clear' to reset)\n", q)
	}
	a.printProjects(a.projectSearch.Results())
	return nil
}

// saveProject prompts for the project fields starting from f. An empty id
// creates a project, otherwise the project with that id is updated.
func (a *App) saveProject(ctx context.Context, id models.ID, f forms.Project) error {
	var err error
	if f.Title, err = GetTextDefault(a.reader, "Title", f.Title, a.out); err != nil {
		return err
	}
	desc, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	if desc != "" {
		f.Description = desc
	}
	statusDefault := f.Status
	if statusDefault == "" {
		statusDefault = string(models.StatusPending)
	}
	if f.Status, err = GetTextDefault(a.reader, "Status (pending, in_progress, completed)", statusDefault, a.out); err != nil {
		return err
	}
	members, err := GetTextDefault(a.reader, "Member user IDs (comma separated)", strings.Join(f.Members, ","), a.out)
	if err != nil {
		return err
	}
	f.Members = forms.ParseMembers(members)

	if id == "" {
		req, err := f.Create()
		if err != nil {
			return a.showFormErrors(err)
		}
		p, err := a.projects.Create(ctx, req)
		if err != nil {
			return a.showServerError(ctx, err)
		}
		a.projectSearch.SetItems(a.projects.Cached())
		a.printf("Project created successfully! (id %s)\n", p.ID)
		return nil
	}

	req, err := f.Update()
	if err != nil {
		return a.showFormErrors(err)
	}
	if _, err := a.projects.Update(ctx, id, req); err != nil {
		return a.showServerError(ctx, err)
	}
	a.projectSearch.SetItems(a.projects.Cached())
	a.println("Project updated successfully!")
	return nil
}

func (a *App) deleteProject(ctx context.Context, id models.ID) error {
	ok, err := Confirm(a.reader, "Delete project "+string(id)+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.projects.Delete(ctx, id); err != nil {
		return a.fail(ctx, err)
	}
	a.projectSearch.SetItems(a.projects.Cached())
	a.println("Project deleted successfully!")
	return nil
}
