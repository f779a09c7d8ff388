package models

import (
	"fmt"
	"time"
)

type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
)

var ProjectStatuses = []ProjectStatus{StatusPending, StatusInProgress, StatusCompleted}

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	st := ProjectStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown project status %q", s)
	}
	return st, nil
}

// ProjectUser is the member summary embedded in a project.
type ProjectUser struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Project struct {
	ID          ID            `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	Users       []ProjectUser `json:"users"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty"`
}

func (p Project) EntityID() ID { return p.ID }

// Field exposes searchable attributes by name. Absent values report false.
func (p Project) Field(name string) (any, bool) {
	switch name {
	case "id":
		return string(p.ID), p.ID != ""
	case "title":
		return p.Title, true
	case "description":
		return p.Description, p.Description != ""
	case "status":
		return string(p.Status), p.Status != ""
	default:
		return nil, false
	}
}

// ProjectCreate is the body of POST /projects.
type ProjectCreate struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status,omitempty"`
	UserIDs     []int         `json:"userId"`
}

// ProjectUpdate is the body of PUT /projects/:id.
type ProjectUpdate struct {
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status,omitempty"`
	UserIDs     []int         `json:"userId,omitempty"`
}
