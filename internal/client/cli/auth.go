package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pmconsole/internal/client/forms"
	"github.com/dmitrijs2005/pmconsole/internal/client/guard"
)

// getPassword is an indirection over GetPassword for tests.
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. The
// console stays logged out and moves to the login view on success.
func (a *App) Register(ctx context.Context) error {
	if d := a.nav.Navigate(guard.PathRegister); !d.Allow {
		a.println("Already logged in.")
		return nil
	}

	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	age, err := GetOptionalInt(a.reader, "Enter age", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}

	req, err := forms.Register(name, email, password, age)
	if err != nil {
		return a.showFormErrors(err)
	}
	if _, err := a.session.Register(ctx, req); err != nil {
		return a.showServerError(ctx, err)
	}

	a.println("Registration successful! Please log in.")
	a.nav.Navigate(guard.PathLogin)
	return nil
}

// Login prompts for credentials, prefilling the last used email.
func (a *App) Login(ctx context.Context) error {
	if d := a.nav.Navigate(guard.PathLogin); !d.Allow {
		a.println("Already logged in.")
		return nil
	}

	last, err := a.tokens.LastEmail(ctx)
	if err != nil {
		a.logger.Debug(ctx, "last email unavailable", "error", err)
	}
	email, err := GetTextDefault(a.reader, "Enter email", last, a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	req, err := forms.Login(email, password)
	if err != nil {
		return a.showFormErrors(err)
	}
	u, err := a.session.Login(ctx, req.Email, req.Password)
	if err != nil {
		a.logger.Debug(ctx, "login failed", "error", err)
		a.println(forms.LoginErrorMessage(err))
		return err
	}

	a.printf("Welcome, %s!\n", u.Name)
	return nil
}

// Logout drops the session locally.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return a.fail(ctx, err)
	}
	a.println("Logged out.")
	return nil
}

// Profile shows the logged in user.
func (a *App) Profile(ctx context.Context) error {
	if !a.enter(guard.PathProfile) {
		return nil
	}
	u := a.session.User()
	if u == nil {
		return nil
	}
	a.printf("ID:    %s\nName:  %s\nEmail: %s\nAge:   %s\n", u.ID, u.Name, u.Email, u.AgeString())
	return nil
}

func (a *App) showFormErrors(err error) error {
	var errs forms.Errors
	if !errors.As(err, &errs) {
		a.println("Error:", err)
		return err
	}
	for _, fe := range errs {
		a.printf("  %s: %s\n", fe.Field, fe.Message)
	}
	return err
}

func (a *App) showServerError(ctx context.Context, err error) error {
	a.logger.Debug(ctx, "request failed", "error", err)
	field, msg := forms.ServerError(err)
	if field != "" {
		a.printf("  %s: %s\n", field, msg)
		return err
	}
	a.println("Error:", msg)
	return err
}
