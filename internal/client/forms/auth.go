package forms

import (
	"errors"

	"github.com/dmitrijs2005/pmconsole/internal/client/client"
	"github.com/dmitrijs2005/pmconsole/internal/client/models"
	"github.com/dmitrijs2005/pmconsole/internal/validate"
)

// Login validates the login form. The returned email is normalized and the
// password is passed through as typed.
func Login(email, password string) (models.LoginRequest, error) {
	var errs Errors
	em := validate.Email(email)
	pw := validate.Password(password)
	errs.check(FieldEmail, em)
	errs.check(FieldPassword, pw)
	return models.LoginRequest{Email: em.Value, Password: pw.Value}, errs.Err()
}

// Register validates the registration form.
func Register(name, email, password string, age *int) (models.RegisterRequest, error) {
	var errs Errors
	nm := validate.Required("Name", name)
	em := validate.Email(email)
	pw := validate.Password(password)
	errs.check(FieldName, nm)
	errs.check(FieldEmail, em)
	errs.check(FieldPassword, pw)
	if err := validate.Age(age); err != nil {
		errs.add(FieldAge, err.Error())
	}
	return models.RegisterRequest{Name: nm.Value, Email: em.Value, Password: pw.Value, Age: age}, errs.Err()
}

// LoginErrorMessage turns a failed login into the banner shown on the login
// view.
func LoginErrorMessage(err error) string {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return "An error occurred: " + err.Error()
	}
	switch apiErr.Kind() {
	case client.KindNetwork:
		return "Network error. Please check your connection."
	case client.KindNotFound:
		return "User not found. Please check your email."
	case client.KindServer:
		return "Internal server error. Please try again later."
	}
	return "An unexpected error occurred. Please try again."
}
