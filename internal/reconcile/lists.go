// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package reconcile

import (
	"fmt"

	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/trello"
)

// ListRef pairs a resolved list with the unresolvable key it referenced.
type ListRef struct {
	List trello.List
	Key  string
}

// ListPlan is the outcome of classifying list mappings and skip entries.
type ListPlan struct {
	milestones map[string]Milestone
	statuses   map[string]StatusOption
	skipped    map[string]trello.List

	InvalidListRefs      []string
	MissingMilestones    []ListRef
	MissingStatuses      []ListRef
	StatusWithoutProject []trello.List
}

// ClassifyLists resolves list mappings and skip entries against the board,
// the repository milestones and the project's status options.
// project is nil when the mapping declares no project.
func ClassifyLists(lists []mapping.ListMapping, skip []string, board *trello.Board, milestones []Milestone, project *ProjectInfo) *ListPlan {
	plan := &ListPlan{
		milestones: make(map[string]Milestone),
		statuses:   make(map[string]StatusOption),
		skipped:    make(map[string]trello.List),
	}

	for _, m := range lists {
		list, ok := board.FindList(m.List)
		if !ok {
			plan.InvalidListRefs = append(plan.InvalidListRefs, m.List)
			continue
		}

		if m.Milestone != nil {
			if ms, found := findMilestone(milestones, *m.Milestone); found {
				if _, dup := plan.milestones[list.ID]; !dup {
					plan.milestones[list.ID] = ms
				}
			} else {
				plan.MissingMilestones = append(plan.MissingMilestones, ListRef{List: list, Key: m.Milestone.String()})
			}
		}

		if m.Status == "" {
			continue
		}
		if project == nil {
			plan.StatusWithoutProject = append(plan.StatusWithoutProject, list)
			continue
		}
		if opt, found := project.Option(m.Status); found {
			if _, dup := plan.statuses[list.ID]; !dup {
				plan.statuses[list.ID] = opt
			}
		} else {
			plan.MissingStatuses = append(plan.MissingStatuses, ListRef{List: list, Key: m.Status})
		}
	}

	for _, ref := range skip {
		list, ok := board.FindList(ref)
		if !ok {
			plan.InvalidListRefs = append(plan.InvalidListRefs, ref)
			continue
		}
		plan.skipped[list.ID] = list
	}

	return plan
}

// findMilestone matches a numeric key against id or number and a string key against the title.
func findMilestone(milestones []Milestone, key mapping.Ref) (Milestone, bool) {
	for _, m := range milestones {
		if key.Numeric && (m.ID == key.ID || int64(m.Number) == key.ID) {
			return m, true
		}
		if !key.Numeric && m.Title == key.Name {
			return m, true
		}
	}
	return Milestone{}, false
}

// IsSkipped reports whether cards of the list are excluded.
func (p *ListPlan) IsSkipped(listID string) bool {
	_, ok := p.skipped[listID]
	return ok
}

// SkippedLists returns the excluded lists in board order.
func (p *ListPlan) SkippedLists(board *trello.Board) []trello.List {
	var out []trello.List
	for _, l := range board.Lists {
		if p.IsSkipped(l.ID) {
			out = append(out, l)
		}
	}
	return out
}

// Milestone returns the milestone mapped to a list.
func (p *ListPlan) Milestone(listID string) (Milestone, bool) {
	m, ok := p.milestones[listID]
	return m, ok
}

// Status returns the project status option mapped to a list.
func (p *ListPlan) Status(listID string) (StatusOption, bool) {
	s, ok := p.statuses[listID]
	return s, ok
}

// Problems describes every list classification that blocks the migration.
func (p *ListPlan) Problems() []string {
	var out []string
	for _, ref := range p.InvalidListRefs {
		out = append(out, fmt.Sprintf("list %q does not exist on the board", ref))
	}
	for _, r := range p.MissingMilestones {
		out = append(out, fmt.Sprintf("list %q maps to milestone %q, which does not exist", r.List.Name, r.Key))
	}
	for _, l := range p.StatusWithoutProject {
		out = append(out, fmt.Sprintf("list %q sets a status but the mapping declares no project", l.Name))
	}
	for _, r := range p.MissingStatuses {
		out = append(out, fmt.Sprintf("list %q maps to status %q, which the project does not have", r.List.Name, r.Key))
	}
	return out
}
