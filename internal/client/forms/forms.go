// Package forms validates operator input for the auth, user and project
// forms before anything is sent to the backend, and maps backend failures
// back onto form fields.
package forms

import (
	"strings"

	"github.com/dmitrijs2005/pmconsole/internal/client/client"
	"github.com/dmitrijs2005/pmconsole/internal/validate"
)

// Field names used in Errors.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldAge      = "age"
	FieldTitle    = "title"
	FieldStatus   = "status"
	FieldMembers  = "userId"
)

type FieldError struct {
	Field   string
	Message string
}

// Errors collects field errors in form order. A non-empty Errors matches
// client.ErrValidation.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

func (e Errors) Is(target error) bool { return target == client.ErrValidation }

// Get returns the message recorded for field, if any.
func (e Errors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Err returns nil when there are no errors.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e *Errors) add(field, msg string) {
	*e = append(*e, FieldError{Field: field, Message: msg})
}

func (e *Errors) check(field string, r validate.Result) {
	if !r.IsValid {
		e.add(field, r.Message())
	}
}
