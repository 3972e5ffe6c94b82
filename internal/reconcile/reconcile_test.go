// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/trello"
)

func testBoard() *trello.Board {
	return &trello.Board{
		Lists: []trello.List{
			{ID: "l1", Name: "Backlog"},
			{ID: "l2", Name: "Doing"},
			{ID: "l3", Name: "Done"},
		},
		Members: []trello.Member{
			{ID: "m1", Username: "ada", FullName: "Ada Lovelace"},
			{ID: "m2", Username: "m1", FullName: "Grace Hopper"},
			{ID: "m3", Username: "linus", FullName: "Linus T"},
		},
		Labels: []trello.Label{
			{ID: "t1", Name: "RFC", Color: "blue"},
			{ID: "t2", Name: "Bug", Color: "red"},
			{ID: "t3", Name: "Chore", Color: "green"},
			{ID: "t4", Name: "Gone", Color: "black"},
		},
	}
}

var remoteLabels = []RemoteLabel{
	{ID: 100, Name: "bug", Color: "d73a4a"},
	{ID: 200, Name: "Request For Comments", Color: "ffffff"},
}

func TestReconcileLabels(t *testing.T) {
	board := testBoard()
	mappings := []mapping.LabelMapping{
		{Trello: "RFC", GitHub: mapping.NameRef("Request For Comments"), Create: true},
		{Trello: "Bug", GitHub: mapping.IDRef(100)},
		{Trello: "Bug", GitHub: mapping.NameRef("ignored, second entry")},
		{Trello: "Gone", GitHub: mapping.NameRef("nope")},
	}

	labels := ReconcileLabels(board.Labels, mappings, remoteLabels)
	if len(labels) != 4 {
		t.Fatalf("Expected one classification per Trello label, got %d", len(labels))
	}

	tc, ok := labels[0].(ToCreate)
	if !ok {
		t.Fatalf("Expected RFC to be ToCreate even though it exists remotely, got %T", labels[0])
	}
	if tc.Name != "Request For Comments" || tc.Color != "0079bf" {
		t.Errorf("Unexpected ToCreate: %+v", tc)
	}

	mapped, ok := labels[1].(Mapped)
	if !ok || mapped.Remote.Name != "bug" {
		t.Errorf("Expected Bug mapped to remote 'bug' by id (first entry wins), got %+v", labels[1])
	}

	if _, ok := labels[2].(Skipped); !ok {
		t.Errorf("Expected Chore skipped, got %T", labels[2])
	}

	missing, ok := labels[3].(Missing)
	if !ok || missing.Key.Name != "nope" {
		t.Errorf("Expected Gone missing with key 'nope', got %+v", labels[3])
	}

	if len(labels.Problems()) != 1 {
		t.Errorf("Expected 1 problem, got %v", labels.Problems())
	}
	if len(labels.Skipped()) != 1 {
		t.Errorf("Expected 1 skipped label, got %d", len(labels.Skipped()))
	}
	if c := labels.Collisions(remoteLabels); len(c) != 1 || c[0].Name != "Request For Comments" {
		t.Errorf("Expected RFC to collide with the existing label, got %+v", c)
	}
}

func TestReconcileLabels_NumericKey(t *testing.T) {
	tests := []struct {
		name     string
		remote   []RemoteLabel
		wantID   int64
		wantFind bool
	}{
		{"matches id", []RemoteLabel{{ID: 7, Name: "seven"}}, 7, true},
		{"matches a label named by the number", []RemoteLabel{{ID: 1, Name: "7"}}, 1, true},
		{"first remote label wins", []RemoteLabel{{ID: 1, Name: "7"}, {ID: 7, Name: "x"}}, 1, true},
		{"no match", []RemoteLabel{{ID: 1, Name: "70"}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := ReconcileLabels(
				[]trello.Label{{Name: "Seven"}},
				[]mapping.LabelMapping{{Trello: "Seven", GitHub: mapping.IDRef(7)}},
				tt.remote,
			)
			mapped, ok := labels[0].(Mapped)
			if ok != tt.wantFind {
				t.Fatalf("Expected found=%v, got %T", tt.wantFind, labels[0])
			}
			if ok && mapped.Remote.ID != tt.wantID {
				t.Errorf("Expected remote id %d, got %d", tt.wantID, mapped.Remote.ID)
			}
		})
	}
}

func TestCardLabel(t *testing.T) {
	labels := Labels{
		Skipped{Label: trello.Label{Name: "Chore"}},
		ToCreate{Label: trello.Label{Name: "RFC"}, Name: "Request For Comments"},
		Mapped{Label: trello.Label{Name: "Bug"}, Remote: RemoteLabel{Name: "bug"}},
		ListMapped{List: trello.List{ID: "l2"}, Remote: RemoteLabel{Name: "in-progress"}},
	}

	tests := []struct {
		name  string
		label string
		want  string
		ok    bool
	}{
		{"to create", "RFC", "Request For Comments", true},
		{"mapped", "Bug", "bug", true},
		{"skipped", "Chore", "", false},
		{"unknown", "Other", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := labels.CardLabel(tt.label)
			if got != tt.want || ok != tt.ok {
				t.Errorf("CardLabel(%q) = (%q, %v), want (%q, %v)", tt.label, got, ok, tt.want, tt.ok)
			}
		})
	}

	if name, ok := labels.ListLabel("l2"); !ok || name != "in-progress" {
		t.Errorf("Expected list label 'in-progress', got %q", name)
	}
	if _, ok := labels.ListLabel("l1"); ok {
		t.Error("Expected no list label for l1")
	}
}

func TestReconcileListLabels(t *testing.T) {
	board := testBoard()
	byName := mapping.NameRef("bug")
	byID := mapping.IDRef(999)
	lists := []mapping.ListMapping{
		{List: "Doing", Label: &byName},
		{List: "l3", Label: &byID},
		{List: "Unknown", Label: &byName},
		{List: "Backlog"},
	}

	labels := ReconcileListLabels(lists, board, remoteLabels)
	if len(labels) != 2 {
		t.Fatalf("Expected 2 classifications, got %d", len(labels))
	}
	if lm, ok := labels[0].(ListMapped); !ok || lm.List.ID != "l2" {
		t.Errorf("Expected Doing list-mapped, got %+v", labels[0])
	}
	if ml, ok := labels[1].(MissingList); !ok || ml.List.ID != "l3" {
		t.Errorf("Expected Done missing-list, got %+v", labels[1])
	}
}

func TestClassifyLists(t *testing.T) {
	board := testBoard()
	v1 := mapping.NameRef("v1")
	num := mapping.IDRef(4)
	absent := mapping.NameRef("v9")

	milestones := []Milestone{
		{ID: 11, Number: 1, Title: "v1"},
		{ID: 12, Number: 4, Title: "v2"},
	}
	project := &ProjectInfo{
		ID:            "P1",
		StatusFieldID: "F1",
		StatusOptions: []StatusOption{{ID: "o1", Name: "Todo"}, {ID: "o2", Name: "In Progress"}},
	}

	lists := []mapping.ListMapping{
		{List: "Backlog", Milestone: &v1, Status: "Todo"},
		{List: "l2", Milestone: &num, Status: "o2"},
		{List: "Done", Milestone: &absent, Status: "Shipped"},
		{List: "Archive"},
	}

	plan := ClassifyLists(lists, []string{"Done", "Nowhere"}, board, milestones, project)

	if m, ok := plan.Milestone("l1"); !ok || m.Number != 1 {
		t.Errorf("Expected Backlog -> milestone #1, got %+v", m)
	}
	if m, ok := plan.Milestone("l2"); !ok || m.Title != "v2" {
		t.Errorf("Expected Doing -> v2 by number, got %+v", m)
	}
	if s, ok := plan.Status("l2"); !ok || s.Name != "In Progress" {
		t.Errorf("Expected Doing -> In Progress by id, got %+v", s)
	}
	if !plan.IsSkipped("l3") || plan.IsSkipped("l1") {
		t.Error("Expected only Done to be skipped")
	}
	if len(plan.InvalidListRefs) != 2 {
		t.Errorf("Expected Archive and Nowhere invalid, got %v", plan.InvalidListRefs)
	}
	if len(plan.MissingMilestones) != 1 || len(plan.MissingStatuses) != 1 {
		t.Errorf("Expected one missing milestone and one missing status, got %+v / %+v", plan.MissingMilestones, plan.MissingStatuses)
	}
	if len(plan.Problems()) != 4 {
		t.Errorf("Expected 4 problems, got %v", plan.Problems())
	}
	if skipped := plan.SkippedLists(board); len(skipped) != 1 || skipped[0].Name != "Done" {
		t.Errorf("Expected skipped lists [Done], got %+v", skipped)
	}
}

func TestClassifyLists_StatusWithoutProject(t *testing.T) {
	plan := ClassifyLists(
		[]mapping.ListMapping{{List: "Doing", Status: "In Progress"}},
		nil, testBoard(), nil, nil,
	)
	if len(plan.StatusWithoutProject) != 1 {
		t.Fatalf("Expected status-without-project, got %+v", plan)
	}
	if _, ok := plan.Status("l2"); ok {
		t.Error("Expected no status mapping without a project")
	}
}

type fakeLookup struct {
	users map[string]string
	fail  map[string]error
	calls []string
}

func (f *fakeLookup) LookupUser(ctx context.Context, login string) (string, error) {
	f.calls = append(f.calls, login)
	if err, ok := f.fail[login]; ok {
		return "", err
	}
	if canonical, ok := f.users[login]; ok {
		return canonical, nil
	}
	return "", ErrUserNotFound
}

func TestResolveMembers(t *testing.T) {
	lookup := &fakeLookup{users: map[string]string{"ada-gh": "Ada-GH"}}
	users := []mapping.UserMapping{
		{Trello: "ada", GitHub: "ada-gh"},
		{Trello: "linus", GitHub: "ghost"},
	}

	members, err := ResolveMembers(context.Background(), users, lookup)
	if err != nil {
		t.Fatalf("ResolveMembers failed: %v", err)
	}
	if !members[0].Valid() || members[0].Login != "Ada-GH" {
		t.Errorf("Expected ada resolved to Ada-GH, got %+v", members[0])
	}
	if members[1].Valid() || members[1].Requested != "ghost" {
		t.Errorf("Expected ghost unresolved, got %+v", members[1])
	}
	if len(members.Problems()) != 1 {
		t.Errorf("Expected 1 problem, got %v", members.Problems())
	}
}

func TestResolveMembers_OtherErrorsAreFatal(t *testing.T) {
	rateLimited := errors.New("rate limited")
	lookup := &fakeLookup{fail: map[string]error{"first": rateLimited}}
	users := []mapping.UserMapping{
		{Trello: "a", GitHub: "first"},
		{Trello: "b", GitHub: "second"},
	}

	_, err := ResolveMembers(context.Background(), users, lookup)
	if err != rateLimited {
		t.Fatalf("Expected the lookup error unchanged, got %v", err)
	}
	if len(lookup.calls) != 1 {
		t.Errorf("Expected the run to stop after the failure, got calls %v", lookup.calls)
	}
}

func TestMapMemberID_Precedence(t *testing.T) {
	board := testBoard()
	members := Members{
		// matches m2 by username "m1"
		{TrelloName: "m1", Login: "by-id"},
		{TrelloName: "ada", Login: "by-username"},
		{TrelloName: "Grace Hopper", Login: "grace"},
		{TrelloName: "linus", Requested: "ghost"},
	}

	tests := []struct {
		name  string
		id    string
		want  string
		found bool
	}{
		// m1's id equals the first entry; its username equals the second. Id wins.
		{"id before username", "m1", "by-id", true},
		// m2's id matches nothing, its username "m1" matches the first entry before its full name.
		{"username before full name", "m2", "by-id", true},
		{"unresolved member", "m3", "", false},
		{"unknown id", "zz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := members.MapMemberID(board, tt.id)
			if got != tt.want || ok != tt.found {
				t.Errorf("MapMemberID(%q) = (%q, %v), want (%q, %v)", tt.id, got, ok, tt.want, tt.found)
			}
		})
	}

	logins, unresolved := members.MapMemberIDs(board, []string{"m1", "m3", "zz"})
	if len(logins) != 1 || logins[0] != "by-id" {
		t.Errorf("Expected [by-id], got %v", logins)
	}
	if len(unresolved) != 2 {
		t.Errorf("Expected 2 unresolved ids, got %v", unresolved)
	}
}
