// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package reconcile joins a Trello board and a mapping document against the
// current state of the target repository and project. Everything here is
// pure classification except ResolveMembers, which performs user lookups.
package reconcile

// RemoteLabel is a label that already exists in the target repository.
type RemoteLabel struct {
	ID    int64
	Name  string
	Color string
}

// Milestone is a milestone of the target repository.
type Milestone struct {
	ID     int64
	Number int
	Title  string
}

// StatusOption is one option of a project's single-select Status field.
type StatusOption struct {
	ID    string
	Name  string
	Color string
}

// ProjectInfo describes the target project and its Status field.
type ProjectInfo struct {
	ID            string
	Title         string
	StatusFieldID string
	StatusOptions []StatusOption
}

// Option finds a status option by id or name.
func (p *ProjectInfo) Option(ref string) (StatusOption, bool) {
	for _, o := range p.StatusOptions {
		if o.ID == ref || o.Name == ref {
			return o, true
		}
	}
	return StatusOption{}, false
}

// RemoteState is the read-only snapshot of the target fetched before reconciling.
type RemoteState struct {
	Labels     []RemoteLabel
	Milestones []Milestone
	Project    *ProjectInfo
}
