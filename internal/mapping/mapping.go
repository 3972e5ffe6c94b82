// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package mapping handles the user-authored document that maps Trello
// entities onto GitHub ones.
package mapping

import (
	"strconv"
	"strings"
)

// OwnerType distinguishes user-owned from organization-owned repositories.
type OwnerType string

const (
	OwnerUser         OwnerType = "user"
	OwnerOrganization OwnerType = "organization"
)

// Document is the validated mapping document.
type Document struct {
	// Project is the GitHub Project (v2) number, if issues should be added to one.
	Project *int

	// Repo is the target repository.
	Repo Repo

	Labels []LabelMapping
	Users  []UserMapping
	Lists  []ListMapping

	// SkipLists holds Trello list ids or names whose cards are not migrated.
	SkipLists []string
}

// Repo identifies the target repository.
type Repo struct {
	Owner     string
	OwnerType OwnerType
	Name      string
}

// String returns "owner/name".
func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// Ref is a GitHub-side reference that may be given as a number (an id) or
// as a string (a name or title).
type Ref struct {
	Name    string
	ID      int64
	Numeric bool
}

// NameRef builds a string reference.
func NameRef(name string) Ref {
	return Ref{Name: name}
}

// IDRef builds a numeric reference.
func IDRef(id int64) Ref {
	return Ref{ID: id, Numeric: true}
}

func (r Ref) String() string {
	if r.Numeric {
		return strconv.FormatInt(r.ID, 10)
	}
	return r.Name
}

// LabelMapping maps a Trello label name to a GitHub label.
// With Create unset, GitHub names an existing label by id or name.
// With Create set, GitHub is the name of a label to create with Color.
type LabelMapping struct {
	Trello string
	GitHub Ref
	Create bool
	Color  string
}

// UserMapping maps a Trello member (id, username or full name) to a GitHub login.
type UserMapping struct {
	Trello string
	GitHub string
}

// ListMapping attaches a label, milestone and/or project status to every card
// of a Trello list.
type ListMapping struct {
	List      string
	Label     *Ref
	Milestone *Ref
	Status    string
}

// HasProject reports whether the document targets a project.
func (d *Document) HasProject() bool {
	return d.Project != nil
}

// stripAt removes a single leading "@" from a handle.
func stripAt(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "@")
}
