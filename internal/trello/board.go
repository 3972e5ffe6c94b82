// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package trello models a Trello board export as read by the migrator.
package trello

import (
	"sort"
	"time"
)

// Board is a parsed Trello board export.
type Board struct {
	Name       string      `json:"name"`
	Lists      []List      `json:"lists"`
	Members    []Member    `json:"members"`
	Labels     []Label     `json:"labels"`
	Cards      []Card      `json:"cards"`
	Checklists []Checklist `json:"checklists"`
	Actions    []Action    `json:"actions"`
}

// List is a board column.
type List struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// Member is a board member.
type Member struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
}

// Label is a board-level label definition.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Uses  int    `json:"uses"`
}

// CardLabel is a label reference on a card. Labels are matched by name.
type CardLabel struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Attachment is a file or link attached to a card.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Card is a single Trello card.
type Card struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Closed       bool         `json:"closed"`
	Desc         string       `json:"desc"`
	ListID       string       `json:"idList"`
	MemberIDs    []string     `json:"idMembers"`
	Labels       []CardLabel  `json:"labels"`
	ChecklistIDs []string     `json:"idChecklists"`
	URL          string       `json:"url"`
	Attachments  []Attachment `json:"attachments"`
}

// ItemState is the completion state of a checklist item.
type ItemState string

const (
	StateComplete   ItemState = "complete"
	StateIncomplete ItemState = "incomplete"
)

// CheckItem is one entry of a checklist.
type CheckItem struct {
	Name  string    `json:"name"`
	State ItemState `json:"state"`
}

// Checklist belongs to exactly one card.
type Checklist struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	CardID string      `json:"idCard"`
	Items  []CheckItem `json:"checkItems"`
}

// List returns the list with the given id.
func (b *Board) List(id string) (List, bool) {
	for _, l := range b.Lists {
		if l.ID == id {
			return l, true
		}
	}
	return List{}, false
}

// FindList resolves a list reference by id first, then by name.
func (b *Board) FindList(ref string) (List, bool) {
	if l, ok := b.List(ref); ok {
		return l, true
	}
	for _, l := range b.Lists {
		if l.Name == ref {
			return l, true
		}
	}
	return List{}, false
}

// Member returns the board member with the given id.
func (b *Board) Member(id string) (Member, bool) {
	for _, m := range b.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// ChecklistsFor returns the checklists of a card, in the card's own order.
// Ids that reference no checklist in the export are ignored.
func (b *Board) ChecklistsFor(card Card) []Checklist {
	byID := make(map[string]Checklist, len(b.Checklists))
	for _, c := range b.Checklists {
		byID[c.ID] = c
	}

	var out []Checklist
	for _, id := range card.ChecklistIDs {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Comments returns every comment on the card ordered by ascending date.
// Comments with identical timestamps keep their export order.
func (b *Board) Comments(cardID string) []Comment {
	var out []Comment
	for _, a := range b.Actions {
		if a.Kind != ActionComment || a.Comment == nil {
			continue
		}
		if a.Comment.CardID == cardID {
			out = append(out, *a.Comment)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// ActionKind tags a board action.
type ActionKind string

const (
	// ActionComment is a comment posted on a card.
	ActionComment ActionKind = "commentCard"
	// ActionOther covers every other action type. It carries no payload.
	ActionOther ActionKind = "other"
)

// Action is a board event. Only comments keep their payload.
type Action struct {
	Kind    ActionKind
	Comment *Comment
}

// Comment is the payload of a commentCard action.
type Comment struct {
	ID             string
	AuthorMemberID string
	AuthorUsername string
	CardID         string
	Text           string
	Date           time.Time
}
