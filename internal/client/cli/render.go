package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/pmconsole/internal/client/models"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func renderUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	tw := newTable(w, "ID", "NAME", "EMAIL", "AGE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.AgeString())
	}
	_ = tw.Flush()
}

func renderUser(w io.Writer, u models.User) {
	fmt.Fprintf(w, "ID:      %s\nName:    %s\nEmail:   %s\nAge:     %s\n", u.ID, u.Name, u.Email, u.AgeString())
	if u.CreatedAt != nil {
		fmt.Fprintf(w, "Created: %s\n", u.CreatedAt.Format("2006-01-02 15:04"))
	}
	if u.UpdatedAt != nil {
		fmt.Fprintf(w, "Updated: %s\n", u.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func renderProjects(w io.Writer, projects []models.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}
	tw := newTable(w, "ID", "TITLE", "STATUS", "MEMBERS")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Title, p.Status, len(p.Users))
	}
	_ = tw.Flush()
}

func renderProject(w io.Writer, p models.Project) {
	fmt.Fprintf(w, "ID:          %s\nTitle:       %s\nStatus:      %s\n", p.ID, p.Title, p.Status)
	if p.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", p.Description)
	}
	if len(p.Users) == 0 {
		fmt.Fprintln(w, "Members:     -")
		return
	}
	fmt.Fprintln(w, "Members:")
	for _, u := range p.Users {
		fmt.Fprintf(w, "  %s  %s <%s>\n", u.ID, u.Name, u.Email)
	}
}
