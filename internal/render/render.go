// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package render turns Trello cards into GitHub issue payloads.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/similigh/trello2gh/internal/reconcile"
	"github.com/similigh/trello2gh/internal/trello"
	"github.com/similigh/trello2gh/internal/utils/text"
)

// DefaultDateLayout is used for comment headers when none is configured.
const DefaultDateLayout = "2006-01-02 15:04 MST"

// Options controls how comment dates are shown.
type Options struct {
	DateLayout string
	Location   *time.Location
}

// Issue is the fully rendered payload for one card.
type Issue struct {
	CardID    string
	Title     string
	Body      string
	Labels    []string
	Assignees []string
	Milestone *int
	Status    *reconcile.StatusOption
	Comments  []string

	// UnresolvedMembers lists card member ids that map to no GitHub user.
	UnresolvedMembers []string
}

// Renderer renders cards against the lookup tables built while reconciling.
// It is read-only after construction.
type Renderer struct {
	board    *trello.Board
	labels   reconcile.Labels
	members  reconcile.Members
	lists    *reconcile.ListPlan
	opts     Options
	splitter *text.RecursiveCharacterSplitter
}

// New creates a renderer.
func New(board *trello.Board, labels reconcile.Labels, members reconcile.Members, lists *reconcile.ListPlan, opts Options) *Renderer {
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Renderer{
		board:    board,
		labels:   labels,
		members:  members,
		lists:    lists,
		opts:     opts,
		splitter: text.NewRecursiveCharacterSplitter(text.GitHubBodyLimit - 512),
	}
}

// Render builds the issue payload for a card.
func (r *Renderer) Render(card trello.Card) Issue {
	issue := Issue{
		CardID:   card.ID,
		Title:    card.Name,
		Body:     Body(card, r.board.ChecklistsFor(card)),
		Labels:   r.cardLabels(card),
		Comments: r.Comments(card),
	}

	issue.Assignees, issue.UnresolvedMembers = r.members.MapMemberIDs(r.board, card.MemberIDs)

	if m, ok := r.lists.Milestone(card.ListID); ok {
		number := m.Number
		issue.Milestone = &number
	}
	if s, ok := r.lists.Status(card.ListID); ok {
		status := s
		issue.Status = &status
	}

	return issue
}

// cardLabels merges the card's own labels with its list label, without duplicates.
func (r *Renderer) cardLabels(card trello.Card) []string {
	seen := make(map[string]bool)
	var out []string
	// GitHub label names are case-insensitive.
	add := func(name string) {
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			out = append(out, name)
		}
	}

	for _, l := range card.Labels {
		if name, ok := r.labels.CardLabel(l.Name); ok {
			add(name)
		}
	}
	if name, ok := r.labels.ListLabel(card.ListID); ok {
		add(name)
	}
	return out
}

// Footer is the line appended to every migrated issue.
func Footer(cardURL string) string {
	return "---\n> Migrated from " + text.Link("Trello Card", cardURL)
}

// Body renders the description, checklists, footer and attachments of a card.
// A card with none of these renders as the footer alone.
func Body(card trello.Card, checklists []trello.Checklist) string {
	var sb strings.Builder

	if desc := strings.TrimRight(card.Desc, " \n"); strings.TrimSpace(desc) != "" {
		sb.WriteString(desc)
		sb.WriteString("\n\n---\n\n")
	}

	if len(checklists) > 0 {
		sb.WriteString("## Checklists\n")
		for _, cl := range checklists {
			fmt.Fprintf(&sb, "\n### %s\n", cl.Name)
			for _, item := range cl.Items {
				sb.WriteString(text.TaskItem(item.Name, item.State == trello.StateComplete))
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(Footer(card.URL))

	if len(card.Attachments) > 0 {
		sb.WriteString("\n")
		for _, a := range card.Attachments {
			sb.WriteString("\n")
			sb.WriteString(text.Link(a.Name, a.URL))
		}
	}

	return sb.String()
}

// Comments renders the card's comments in ascending date order. A comment
// longer than GitHub accepts is split over several bodies sharing the header.
func (r *Renderer) Comments(card trello.Card) []string {
	var out []string
	for _, c := range r.board.Comments(card.ID) {
		header := fmt.Sprintf("## @%s • %s\n", r.commentAuthor(c), c.Date.In(r.opts.Location).Format(r.opts.DateLayout))
		for _, chunk := range r.splitter.SplitText(c.Text) {
			out = append(out, header+chunk)
		}
	}
	return out
}

// commentAuthor prefers the mapped GitHub login and falls back to the Trello username.
func (r *Renderer) commentAuthor(c trello.Comment) string {
	if login, ok := r.members.MapMemberID(r.board, c.AuthorMemberID); ok {
		return login
	}
	if c.AuthorUsername != "" {
		return c.AuthorUsername
	}
	if m, ok := r.board.Member(c.AuthorMemberID); ok && m.Username != "" {
		return m.Username
	}
	return c.AuthorMemberID
}
