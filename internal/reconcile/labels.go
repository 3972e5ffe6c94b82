// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/trello"
)

// Classified is the outcome of reconciling one Trello label or one
// list→label mapping. The set of implementations is closed:
// Skipped, ToCreate, Missing, Mapped, ListMapped and MissingList.
type Classified interface {
	classified()
}

// Skipped is a Trello label with no mapping entry.
type Skipped struct {
	Label trello.Label
}

// ToCreate is a Trello label whose GitHub label will be created.
type ToCreate struct {
	Label trello.Label
	Name  string
	Color string
}

// Missing is a Trello label mapped to a GitHub label that does not exist.
type Missing struct {
	Label trello.Label
	Key   mapping.Ref
}

// Mapped is a Trello label mapped to an existing GitHub label.
type Mapped struct {
	Label  trello.Label
	Remote RemoteLabel
}

// ListMapped is a list whose cards get an existing GitHub label.
type ListMapped struct {
	List   trello.List
	Remote RemoteLabel
}

// MissingList is a list mapped to a GitHub label that does not exist.
type MissingList struct {
	List trello.List
	Key  mapping.Ref
}

func (Skipped) classified()     {}
func (ToCreate) classified()    {}
func (Missing) classified()     {}
func (Mapped) classified()      {}
func (ListMapped) classified()  {}
func (MissingList) classified() {}

func unknownVariant(c Classified) string {
	return fmt.Sprintf("reconcile: unhandled label classification %T", c)
}

// Labels is the full classification for one run, in classification order.
type Labels []Classified

// ReconcileLabels classifies every Trello label, in input order.
// When several mapping entries share a Trello name the first one wins.
func ReconcileLabels(labels []trello.Label, mappings []mapping.LabelMapping, remote []RemoteLabel) Labels {
	out := make(Labels, 0, len(labels))
	for _, label := range labels {
		m, ok := firstMapping(mappings, label.Name)
		switch {
		case !ok:
			out = append(out, Skipped{Label: label})
		case m.Create:
			color := m.Color
			if color == "" {
				color = trelloColorHex[label.Color]
			}
			out = append(out, ToCreate{Label: label, Name: m.GitHub.Name, Color: color})
		default:
			if r, found := findRemote(remote, m.GitHub); found {
				out = append(out, Mapped{Label: label, Remote: r})
			} else {
				out = append(out, Missing{Label: label, Key: m.GitHub})
			}
		}
	}
	return out
}

// ReconcileListLabels classifies every list mapping that names a label.
// Entries whose list cannot be found are left to ClassifyLists.
func ReconcileListLabels(lists []mapping.ListMapping, board *trello.Board, remote []RemoteLabel) Labels {
	var out Labels
	for _, m := range lists {
		if m.Label == nil {
			continue
		}
		list, ok := board.FindList(m.List)
		if !ok {
			continue
		}
		if r, found := findRemote(remote, *m.Label); found {
			out = append(out, ListMapped{List: list, Remote: r})
		} else {
			out = append(out, MissingList{List: list, Key: *m.Label})
		}
	}
	return out
}

func firstMapping(mappings []mapping.LabelMapping, trelloName string) (mapping.LabelMapping, bool) {
	for _, m := range mappings {
		if m.Trello == trelloName {
			return m, true
		}
	}
	return mapping.LabelMapping{}, false
}

// findRemote returns the first remote label whose id equals a numeric key or
// whose name equals the key as written.
func findRemote(remote []RemoteLabel, key mapping.Ref) (RemoteLabel, bool) {
	name := key.Name
	if key.Numeric {
		name = strconv.FormatInt(key.ID, 10)
	}
	for _, r := range remote {
		if (key.Numeric && r.ID == key.ID) || r.Name == name {
			return r, true
		}
	}
	return RemoteLabel{}, false
}

// Skipped returns every Trello label without a mapping entry.
func (ls Labels) Skipped() []Skipped {
	var out []Skipped
	for _, c := range ls {
		if s, ok := c.(Skipped); ok {
			out = append(out, s)
		}
	}
	return out
}

// ToCreate returns the labels to create, in classification order.
func (ls Labels) ToCreate() []ToCreate {
	var out []ToCreate
	for _, c := range ls {
		if tc, ok := c.(ToCreate); ok {
			out = append(out, tc)
		}
	}
	return out
}

// Collisions returns labels to create whose name already exists remotely.
// GitHub compares label names case-insensitively.
func (ls Labels) Collisions(remote []RemoteLabel) []ToCreate {
	var out []ToCreate
	for _, tc := range ls.ToCreate() {
		for _, r := range remote {
			if strings.EqualFold(r.Name, tc.Name) {
				out = append(out, tc)
				break
			}
		}
	}
	return out
}

// Problems describes every classification that blocks the migration.
func (ls Labels) Problems() []string {
	var out []string
	for _, c := range ls {
		switch v := c.(type) {
		case Missing:
			out = append(out, fmt.Sprintf("label %q maps to GitHub label %q, which does not exist", v.Label.Name, v.Key))
		case MissingList:
			out = append(out, fmt.Sprintf("list %q maps to GitHub label %q, which does not exist", v.List.Name, v.Key))
		case Skipped, ToCreate, Mapped, ListMapped:
		default:
			panic(unknownVariant(c))
		}
	}
	return out
}

// CardLabel returns the GitHub label name for a card label, matched by the
// Trello label name. Skipped and missing labels yield false.
func (ls Labels) CardLabel(name string) (string, bool) {
	for _, c := range ls {
		switch v := c.(type) {
		case Mapped:
			if v.Label.Name == name {
				return v.Remote.Name, true
			}
		case ToCreate:
			if v.Label.Name == name {
				return v.Name, true
			}
		case Skipped:
			if v.Label.Name == name {
				return "", false
			}
		case Missing:
			if v.Label.Name == name {
				return "", false
			}
		case ListMapped, MissingList:
		default:
			panic(unknownVariant(c))
		}
	}
	return "", false
}

// ListLabel returns the GitHub label attached to every card of a list.
func (ls Labels) ListLabel(listID string) (string, bool) {
	for _, c := range ls {
		switch v := c.(type) {
		case ListMapped:
			if v.List.ID == listID {
				return v.Remote.Name, true
			}
		case MissingList:
			if v.List.ID == listID {
				return "", false
			}
		case Skipped, ToCreate, Missing, Mapped:
		default:
			panic(unknownVariant(c))
		}
	}
	return "", false
}

// trelloColorHex maps Trello's named label colors to hex, used when a label
// to create has no explicit color.
var trelloColorHex = map[string]string{
	"green":  "61bd4f",
	"yellow": "f2d600",
	"orange": "ff9f1a",
	"red":    "eb5a46",
	"purple": "c377e0",
	"blue":   "0079bf",
	"sky":    "00c2e0",
	"lime":   "51e898",
	"pink":   "ff78cb",
	"black":  "344563",
}
