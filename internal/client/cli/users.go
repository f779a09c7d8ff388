package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/dmitrijs2005/pmconsole/internal/client/forms"
	"github.com/dmitrijs2005/pmconsole/internal/client/guard"
	"github.com/dmitrijs2005/pmconsole/internal/client/models"
)

const usersUsage = "Usage: users [list | search [query] | clear | show <id> | add | edit <id> | delete <id>]"

// Users dispatches the users view subcommands. Without arguments it lists.
func (a *App) Users(ctx context.Context, args []string) error {
	if !a.enter(guard.PathUsers) {
		return nil
	}
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list", "ls":
		return a.listUsers(ctx)
	case "search", "find":
		if len(a.users.Cached()) == 0 {
			if _, err := a.users.List(ctx); err != nil {
				return a.fail(ctx, err)
			}
		}
		a.userSearch.SetItems(a.users.Cached())
		runSearch(ctx, a, a.userSearch, args, a.printUsers)
		return nil
	case "clear":
		a.userSearch.SetQuery("")
		a.userSearch.Flush()
		return a.listUsers(ctx)
	case "show":
		id, ok := a.idArg(args)
		if !ok {
			return nil
		}
		u, err := a.users.GetByID(ctx, id)
		if err != nil {
			return a.fail(ctx, err)
		}
		a.write(func(w io.Writer) { renderUser(w, u) })
		return nil
	case "add", "new":
		return a.addUser(ctx)
	case "edit":
		id, ok := a.idArg(args)
		if !ok {
			return nil
		}
		return a.editUser(ctx, id)
	case "delete", "rm":
		id, ok := a.idArg(args)
		if !ok {
			return nil
		}
		return a.deleteUser(ctx, id)
	}
	a.println(usersUsage)
	return nil
}

func (a *App) printUsers(users []models.User) {
	a.write(func(w io.Writer) { renderUsers(w, users) })
}

func (a *App) listUsers(ctx context.Context) error {
	users, err := a.users.List(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.userSearch.SetItems(users)
	if q := a.userSearch.DebouncedQuery(); q != "" {
		a.printf("Filtered by %q ('users clear' to reset)\n", q)
	}
	a.printUsers(a.userSearch.Results())
	return nil
}

func (a *App) addUser(ctx context.Context) error {
	var f forms.User
	var err error
	if f.Name, err = GetSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if f.Email, err = GetSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if f.Age, err = GetOptionalInt(a.reader, "Enter age", a.out); err != nil {
		return a.fail(ctx, err)
	}
	if f.Password, err = getPassword("Enter password (empty for a temporary one)", a.out); err != nil {
		return err
	}

	req, err := f.Create()
	if err != nil {
		return a.showFormErrors(err)
	}
	u, err := a.users.Create(ctx, req)
	if err != nil {
		return a.showServerError(ctx, err)
	}
	a.userSearch.SetItems(a.users.Cached())
	a.printf("User created successfully! (id %s)\n", u.ID)
	return nil
}

func (a *App) editUser(ctx context.Context, id models.ID) error {
	current, ok := a.users.Find(id)
	if !ok {
		var err error
		if current, err = a.users.GetByID(ctx, id); err != nil {
			return a.fail(ctx, err)
		}
	}

	f := forms.FromUser(current)
	var err error
	if f.Name, err = GetTextDefault(a.reader, "Name", f.Name, a.out); err != nil {
		return err
	}
	if f.Email, err = GetTextDefault(a.reader, "Email", f.Email, a.out); err != nil {
		return err
	}
	ageDefault := ""
	if f.Age != nil {
		ageDefault = strconv.Itoa(*f.Age)
	}
	age, err := GetTextDefault(a.reader, "Age (optional)", ageDefault, a.out)
	if err != nil {
		return err
	}
	f.Age = nil
	if age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			a.printf("  %s: Age must be between 1 and 150\n", forms.FieldAge)
			return err
		}
		f.Age = &n
	}

	req, err := f.Update()
	if err != nil {
		return a.showFormErrors(err)
	}
	if _, err := a.users.Update(ctx, id, req); err != nil {
		return a.showServerError(ctx, err)
	}
	a.userSearch.SetItems(a.users.Cached())
	a.println("User updated successfully!")
	return nil
}

func (a *App) deleteUser(ctx context.Context, id models.ID) error {
	ok, err := Confirm(a.reader, "Delete user "+string(id)+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.users.Delete(ctx, id); err != nil {
		return a.fail(ctx, err)
	}
	a.userSearch.SetItems(a.users.Cached())
	a.println("User deleted successfully!")
	return nil
}

func (a *App) idArg(args []string) (models.ID, bool) {
	if len(args) == 0 || args[0] == "" {
		a.println("Missing <id>.")
		return "", false
	}
	return models.ID(args[0]), true
}
