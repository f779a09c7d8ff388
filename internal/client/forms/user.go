package forms

import (
	"github.com/dmitrijs2005/pmconsole/internal/client/models"
	"github.com/dmitrijs2005/pmconsole/internal/validate"
)

// User is the create/edit user form as entered.
type User struct {
	Name  string
	Email string
	Age   *int
	// Password is optional. When empty the backend issues a temporary
	// credential.
	Password string
}

func (f User) validate() (name, email string, errs Errors) {
	nm := validate.Required("Name", f.Name)
	em := validate.Email(f.Email)
	errs.check(FieldName, nm)
	errs.check(FieldEmail, em)
	if err := validate.Age(f.Age); err != nil {
		errs.add(FieldAge, err.Error())
	}
	return nm.Value, em.Value, errs
}

func (f User) Create() (models.UserCreate, error) {
	name, email, errs := f.validate()
	out := models.UserCreate{Name: name, Email: email, Age: f.Age}
	if f.Password != "" {
		pw := validate.Password(f.Password)
		errs.check(FieldPassword, pw)
		out.Password = pw.Value
	}
	return out, errs.Err()
}

func (f User) Update() (models.UserUpdate, error) {
	name, email, errs := f.validate()
	return models.UserUpdate{Name: name, Email: email, Age: f.Age}, errs.Err()
}

// FromUser prefills the form for editing u.
func FromUser(u models.User) User {
	return User{Name: u.Name, Email: u.Email, Age: u.Age}
}
