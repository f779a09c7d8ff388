package forms

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/pmconsole/internal/client/models"
	"github.com/dmitrijs2005/pmconsole/internal/validate"
)

// Project is the create/edit project form as entered. Members holds user ids
// as typed.
type Project struct {
	Title       string
	Description string
	Status      string
	Members     []string
}

func (f Project) validate() (models.ProjectCreate, Errors) {
	var errs Errors
	title := validate.Required("Title", f.Title)
	errs.check(FieldTitle, title)

	status := models.StatusPending
	if s := strings.TrimSpace(f.Status); s != "" {
		st, err := models.ParseProjectStatus(s)
		if err != nil {
			errs.add(FieldStatus, "Status must be one of pending, in_progress, completed")
		}
		status = st
	}

	ids, msg := memberIDs(f.Members)
	if msg != "" {
		errs.add(FieldMembers, msg)
	}

	return models.ProjectCreate{
		Title:       title.Value,
		Description: validate.Normalize(f.Description),
		Status:      status,
		UserIDs:     ids,
	}, errs
}

func (f Project) Create() (models.ProjectCreate, error) {
	out, errs := f.validate()
	return out, errs.Err()
}

func (f Project) Update() (models.ProjectUpdate, error) {
	in, errs := f.validate()
	return models.ProjectUpdate(in), errs.Err()
}

// FromProject prefills the form for editing p.
func FromProject(p models.Project) Project {
	members := make([]string, len(p.Users))
	for i, u := range p.Users {
		members[i] = string(u.ID)
	}
	return Project{Title: p.Title, Description: p.Description, Status: string(p.Status), Members: members}
}

// ParseMembers splits a comma or space separated id list.
func ParseMembers(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
}

func memberIDs(raw []string) ([]int, string) {
	ids := make([]int, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		n, err := strconv.Atoi(r)
		if err != nil || n <= 0 {
			return nil, "All user IDs must be valid positive integers"
		}
		ids = append(ids, n)
	}
	if len(ids) == 0 {
		return nil, "At least one project member must be selected"
	}
	return ids, ""
}
