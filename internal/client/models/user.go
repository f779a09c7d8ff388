package models

import (
	"strconv"
	"time"
)

// User is the backend-owned user record as cached by the client.
type User struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       *int       `json:"age,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (u User) EntityID() ID { return u.ID }

// Field exposes searchable attributes by name. Absent values report false.
func (u User) Field(name string) (any, bool) {
	switch name {
	case "id":
		return string(u.ID), u.ID != ""
	case "name":
		return u.Name, true
	case "email":
		return u.Email, true
	case "age":
		if u.Age == nil {
			return nil, false
		}
		return *u.Age, true
	default:
		return nil, false
	}
}

// AgeString renders the optional age, or "-" when it is unknown.
func (u User) AgeString() string {
	if u.Age == nil {
		return "-"
	}
	return strconv.Itoa(*u.Age)
}

// UserCreate is the body of POST /users. An empty Password is omitted so the
// backend issues a temporary credential instead of a client-side default.
type UserCreate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Age      *int   `json:"age,omitempty"`
}

// UserUpdate is the body of PUT /users/:id.
type UserUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Age   *int   `json:"age,omitempty"`
}
