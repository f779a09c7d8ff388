// Package validate normalizes and checks operator input before it reaches
// the session store or the entity repositories.
//
// Every check returns a Result. A failed Result carries a *Error that wraps
// one of the sentinel errors below, so callers can match the failure class
// with errors.Is and still show the user-facing message from Error().
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind selects the validation rule applied by Input.
type Kind string

const (
	KindEmail    Kind = "email"
	KindPassword Kind = "password"
	KindText     Kind = "text"
)

var (
	ErrEmptyInput        = errors.New("empty input")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrLengthOutOfRange  = errors.New("length out of range")
	ErrInvalidCharacters = errors.New("invalid characters")
	ErrUnknownInputType  = errors.New("unknown input type")
	ErrOutOfRange        = errors.New("value out of range")
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 20
	AgeMin            = 1
	AgeMax            = 150
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]*$`)
)

// Error is a field-level validation failure.
type Error struct {
	Err     error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func fail(err error, msg string) *Error {
	return &Error{Err: err, Message: msg}
}

// Result is produced per field per submit and consumed immediately.
type Result struct {
	Value   string
	IsValid bool
	Err     error
}

// Message returns the user-facing error text, or "" for a valid result.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func valid(v string) Result {
	return Result{Value: v, IsValid: true}
}

func invalid(v string, err error) Result {
	return Result{Value: v, Err: err}
}

// Normalize trims s and collapses every whitespace run to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Email checks the normalized address against local@domain.tld.
func Email(s string) Result {
	v := Normalize(s)
	if v == "" {
		return invalid(v, fail(ErrEmptyInput, "Email is required"))
	}
	if !emailPattern.MatchString(v) {
		return invalid(v, fail(ErrInvalidFormat, "Please enter a valid email address"))
	}
	return valid(v)
}

// Password checks the raw password. It is never normalized, so the returned
// value is exactly what was typed.
func Password(s string) Result {
	if s == "" {
		return invalid(s, fail(ErrEmptyInput, "Password is required"))
	}
	if n := utf8.RuneCountInString(s); n < PasswordMinLength || n > PasswordMaxLength {
		return invalid(s, fail(ErrLengthOutOfRange, "Password must be between 8 and 20 characters"))
	}
	if !passwordPattern.MatchString(s) {
		return invalid(s, fail(ErrInvalidCharacters, "Password contains invalid characters"))
	}
	return valid(s)
}

// Text always succeeds. Whether an empty value is acceptable is up to the
// caller, see Required.
func Text(s string) Result {
	return valid(Normalize(s))
}

// Required normalizes s and fails with "<label> is required" when nothing is left.
func Required(label, s string) Result {
	v := Normalize(s)
	if v == "" {
		return invalid(v, fail(ErrEmptyInput, label+" is required"))
	}
	return valid(v)
}

// Age checks an optional age. A nil age is valid.
func Age(age *int) error {
	if age == nil {
		return nil
	}
	if *age < AgeMin || *age > AgeMax {
		return fail(ErrOutOfRange, "Age must be between 1 and 150")
	}
	return nil
}

// Input dispatches to the rule registered for kind.
func Input(kind Kind, s string) Result {
	switch kind {
	case KindEmail:
		return Email(s)
	case KindPassword:
		return Password(s)
	case KindText:
		return Text(s)
	default:
		return invalid(Normalize(s), fail(ErrUnknownInputType, "Unknown input type"))
	}
}
