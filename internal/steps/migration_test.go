// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/similigh/trello2gh/internal/core/config"
	"github.com/similigh/trello2gh/internal/core/pipeline"
	"github.com/similigh/trello2gh/internal/integrations/github"
	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/reconcile"
	"github.com/similigh/trello2gh/internal/trello"
)

// fakeRemote plays both GitHub and GitHub Projects and records every call in order.
type fakeRemote struct {
	labels     []reconcile.RemoteLabel
	milestones []reconcile.Milestone
	users      map[string]string
	userErr    error
	project    *reconcile.ProjectInfo
	failIssue  string

	calls  []string
	issues []github.IssueRequest
	next   int
}

func (f *fakeRemote) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeRemote) LookupUser(ctx context.Context, login string) (string, error) {
	f.record("lookup_user %s", login)
	if f.userErr != nil {
		return "", f.userErr
	}
	if canonical, ok := f.users[login]; ok {
		return canonical, nil
	}
	return "", reconcile.ErrUserNotFound
}

func (f *fakeRemote) ListLabels(ctx context.Context, org, repo string) ([]reconcile.RemoteLabel, error) {
	f.record("list_labels %s/%s", org, repo)
	return f.labels, nil
}

func (f *fakeRemote) ListMilestones(ctx context.Context, org, repo string) ([]reconcile.Milestone, error) {
	f.record("list_milestones %s/%s", org, repo)
	return f.milestones, nil
}

func (f *fakeRemote) CreateLabel(ctx context.Context, org, repo, name, color string) error {
	f.record("create_label %s %s", name, color)
	return nil
}

func (f *fakeRemote) CreateIssue(ctx context.Context, org, repo string, req github.IssueRequest) (*github.CreatedIssue, error) {
	f.record("create_issue %s", req.Title)
	if req.Title == f.failIssue {
		return nil, errors.New("secondary rate limit")
	}
	f.issues = append(f.issues, req)
	f.next++
	return &github.CreatedIssue{Number: f.next, NodeID: fmt.Sprintf("I_%d", f.next)}, nil
}

func (f *fakeRemote) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	f.record("create_comment #%d", number)
	return nil
}

func (f *fakeRemote) ProjectInfo(ctx context.Context, owner string, ownerType mapping.OwnerType, number int) (*reconcile.ProjectInfo, error) {
	f.record("project_info %s %s %d", owner, ownerType, number)
	if f.project == nil {
		return nil, errors.New("project not found")
	}
	return f.project, nil
}

func (f *fakeRemote) AddProjectItem(ctx context.Context, projectID, contentNodeID string) (string, error) {
	f.record("add_project_item %s %s", projectID, contentNodeID)
	return "item-" + contentNodeID, nil
}

func (f *fakeRemote) SetProjectItemStatus(ctx context.Context, projectID, itemID, fieldID, optionID string) error {
	f.record("set_status %s %s %s", itemID, fieldID, optionID)
	return nil
}

func (f *fakeRemote) mutations() []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, "create_") || strings.HasPrefix(c, "add_") || strings.HasPrefix(c, "set_") {
			out = append(out, c)
		}
	}
	return out
}

type answers struct {
	replies []bool
	asked   []string
}

func (a *answers) Confirm(question string) (bool, error) {
	a.asked = append(a.asked, question)
	if len(a.replies) == 0 {
		return false, nil
	}
	reply := a.replies[0]
	a.replies = a.replies[1:]
	return reply, nil
}

func runMigration(t *testing.T, remote *fakeRemote, confirmer pipeline.Confirmer, board *trello.Board, doc *mapping.Document, dryRun bool) (*pipeline.Context, error) {
	t.Helper()

	deps := &pipeline.Dependencies{
		GitHub:    remote,
		Projects:  remote,
		Confirmer: confirmer,
		Logger:    zaptest.NewLogger(t),
		DryRun:    dryRun,
	}

	registry := pipeline.NewRegistry()
	RegisterAll(registry)

	p, err := registry.BuildFromNames(pipeline.MigrationSteps(), deps)
	if err != nil {
		t.Fatalf("Failed to build pipeline: %v", err)
	}

	cfg := &config.Config{Output: config.OutputConfig{DateFormat: "2006-01-02", Timezone: "UTC"}}
	ctx := pipeline.NewContext(context.Background(), cfg, board, doc)
	return ctx, p.Run(ctx)
}

func baseBoard() *trello.Board {
	return &trello.Board{
		Name: "Roadmap",
		Lists: []trello.List{
			{ID: "l-todo", Name: "To Do"},
			{ID: "l-doing", Name: "Doing"},
			{ID: "l-done", Name: "Done"},
		},
		Members: []trello.Member{{ID: "m1", Username: "ada", FullName: "Ada"}},
		Labels:  []trello.Label{{ID: "t1", Name: "RFC", Color: "blue"}},
	}
}

func baseMapping() *mapping.Document {
	return &mapping.Document{
		Repo: mapping.Repo{Owner: "acme", OwnerType: mapping.OwnerOrganization, Name: "roadmap"},
		Labels: []mapping.LabelMapping{
			{Trello: "RFC", GitHub: mapping.NameRef("Request For Comments"), Create: true},
		},
	}
}

func TestMigration_CreatesLabelBeforeIssues(t *testing.T) {
	board := baseBoard()
	board.Cards = []trello.Card{
		{ID: "c1", Name: "Write RFC", ListID: "l-todo", Labels: []trello.CardLabel{{Name: "RFC", Color: "blue"}}},
	}
	remote := &fakeRemote{}

	ctx, err := runMigration(t, remote, nil, board, baseMapping(), false)
	if err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	want := []string{
		"create_label Request For Comments 0079bf",
		"create_issue Write RFC",
	}
	if got := remote.mutations(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected mutations %v, got %v", want, got)
	}
	if labels := remote.issues[0].Labels; len(labels) != 1 || labels[0] != "Request For Comments" {
		t.Errorf("Expected issue label 'Request For Comments', got %v", labels)
	}
	if ctx.Phase != pipeline.PhaseDone {
		t.Errorf("Expected done, got %s", ctx.Phase)
	}
}

func TestMigration_SharedLabelNameCreatedOnce(t *testing.T) {
	board := baseBoard()
	board.Labels = []trello.Label{
		{ID: "t1", Name: "RFC", Color: "blue"},
		{ID: "t2", Name: "Proposal", Color: "red"},
		{ID: "t3", Name: "RFC", Color: "green"},
	}
	board.Cards = []trello.Card{
		{ID: "c1", Name: "a", ListID: "l-todo", Labels: []trello.CardLabel{{Name: "RFC"}, {Name: "Proposal"}}},
	}
	doc := baseMapping()
	doc.Labels = append(doc.Labels, mapping.LabelMapping{
		Trello: "Proposal", GitHub: mapping.NameRef("request for comments"), Create: true, Color: "ff0000",
	})
	remote := &fakeRemote{}

	ctx, err := runMigration(t, remote, nil, board, doc, false)
	if err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	want := []string{
		"create_label Request For Comments 0079bf",
		"create_issue a",
	}
	if got := remote.mutations(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected one label create, got %v", got)
	}
	if len(ctx.Result.LabelsCreated) != 1 {
		t.Errorf("Expected one label recorded, got %v", ctx.Result.LabelsCreated)
	}
	if labels := remote.issues[0].Labels; len(labels) != 1 {
		t.Errorf("Expected the shared label once on the issue, got %v", labels)
	}
}

func TestMigration_SkipsListedLists(t *testing.T) {
	board := baseBoard()
	board.Cards = []trello.Card{
		{ID: "c1", Name: "one", ListID: "l-done"},
		{ID: "c2", Name: "two", ListID: "l-todo"},
		{ID: "c3", Name: "three", ListID: "l-done"},
		{ID: "c4", Name: "four", ListID: "l-doing"},
		{ID: "c5", Name: "five", ListID: "l-done"},
	}
	doc := baseMapping()
	doc.SkipLists = []string{"Done"}
	remote := &fakeRemote{}

	ctx, err := runMigration(t, remote, nil, board, doc, false)
	if err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	var created []string
	for _, req := range remote.issues {
		created = append(created, req.Title)
	}
	if strings.Join(created, ",") != "two,four" {
		t.Errorf("Expected only cards outside Done in order, got %v", created)
	}
	if ctx.Result.SkippedCards != 3 {
		t.Errorf("Expected 3 skipped cards, got %d", ctx.Result.SkippedCards)
	}
	if n := CardsToMigrate(ctx); n != 2 {
		t.Errorf("Expected CardsToMigrate to agree with the run, got %d", n)
	}
}

func TestMigration_ProjectStatus(t *testing.T) {
	board := baseBoard()
	board.Cards = []trello.Card{
		{ID: "c1", Name: "a", ListID: "l-doing"},
		{ID: "c2", Name: "b", ListID: "l-todo"},
		{ID: "c3", Name: "c", ListID: "l-doing"},
	}
	project := 3
	doc := baseMapping()
	doc.Project = &project
	doc.Lists = []mapping.ListMapping{{List: "Doing", Status: "In Progress"}}

	remote := &fakeRemote{project: &reconcile.ProjectInfo{
		ID:            "PVT",
		StatusFieldID: "F",
		StatusOptions: []reconcile.StatusOption{{ID: "opt-todo", Name: "Todo"}, {ID: "opt-ip", Name: "In Progress"}},
	}}

	ctx, err := runMigration(t, remote, nil, board, doc, false)
	if err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	want := []string{
		"create_label Request For Comments 0079bf",
		"create_issue a",
		"add_project_item PVT I_1",
		"set_status item-I_1 F opt-ip",
		"create_issue b",
		"add_project_item PVT I_2",
		"create_issue c",
		"add_project_item PVT I_3",
		"set_status item-I_3 F opt-ip",
	}
	if got := remote.mutations(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Unexpected mutations:\ngot  %v\nwant %v", got, want)
	}
	if !strings.Contains(strings.Join(remote.calls, "|"), "project_info acme organization 3") {
		t.Errorf("Expected project lookup for the organization, got %v", remote.calls)
	}
	if ctx.Result.Issues[0].ProjectItemID != "item-I_1" || ctx.Result.Issues[0].Status != "In Progress" {
		t.Errorf("Unexpected result: %+v", ctx.Result.Issues[0])
	}
}

func TestMigration_CommentsFollowTheirIssue(t *testing.T) {
	board := baseBoard()
	board.Cards = []trello.Card{
		{ID: "c1", Name: "a", ListID: "l-todo"},
		{ID: "c2", Name: "b", ListID: "l-todo"},
	}
	board.Actions = []trello.Action{
		{Kind: trello.ActionComment, Comment: &trello.Comment{CardID: "c1", AuthorUsername: "ada", Text: "later", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}},
		{Kind: trello.ActionComment, Comment: &trello.Comment{CardID: "c1", AuthorUsername: "ada", Text: "first", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}},
	}
	remote := &fakeRemote{}

	if _, err := runMigration(t, remote, nil, board, baseMapping(), false); err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	want := []string{
		"create_label Request For Comments 0079bf",
		"create_issue a",
		"create_comment #1",
		"create_comment #1",
		"create_issue b",
	}
	if got := remote.mutations(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Unexpected mutations:\ngot  %v\nwant %v", got, want)
	}
}

func TestMigration_ValidationAbortsBeforeMutation(t *testing.T) {
	board := baseBoard()
	board.Labels = append(board.Labels, trello.Label{ID: "t2", Name: "Bug"})
	board.Cards = []trello.Card{{ID: "c1", Name: "a", ListID: "l-todo"}}

	milestone := mapping.NameRef("v9")
	doc := baseMapping()
	doc.Labels = append(doc.Labels, mapping.LabelMapping{Trello: "Bug", GitHub: mapping.NameRef("bug")})
	doc.Lists = []mapping.ListMapping{
		{List: "Nowhere"},
		{List: "Doing", Milestone: &milestone, Status: "In Progress"},
	}
	doc.Users = []mapping.UserMapping{{Trello: "ada", GitHub: "ghost"}}

	remote := &fakeRemote{}
	ctx, err := runMigration(t, remote, nil, board, doc, false)

	var vErr *pipeline.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected a validation error, got %v", err)
	}
	// missing label, invalid list, missing milestone, status without project, unresolved user
	if len(vErr.Problems) != 5 {
		t.Errorf("Expected all 5 problems in one report, got %v", vErr.Problems)
	}
	if m := remote.mutations(); len(m) != 0 {
		t.Errorf("Expected no mutation, got %v", m)
	}
	if ctx.Phase != pipeline.PhaseAborted {
		t.Errorf("Expected aborted, got %s", ctx.Phase)
	}
}

func TestMigration_LookupFailureIsFatal(t *testing.T) {
	doc := baseMapping()
	doc.Users = []mapping.UserMapping{{Trello: "ada", GitHub: "ada"}}
	rateLimited := errors.New("API rate limit exceeded")
	remote := &fakeRemote{userErr: rateLimited}

	_, err := runMigration(t, remote, nil, baseBoard(), doc, false)
	if !errors.Is(err, rateLimited) {
		t.Fatalf("Expected the lookup error, got %v", err)
	}
	var vErr *pipeline.ValidationError
	if errors.As(err, &vErr) {
		t.Error("Expected a fatal error, not an aggregated validation error")
	}
}

func TestMigration_SkippedLabelsNeedConfirmation(t *testing.T) {
	board := baseBoard()
	board.Labels = append(board.Labels, trello.Label{ID: "t2", Name: "Chore"})
	board.Cards = []trello.Card{
		{ID: "c1", Name: "a", ListID: "l-todo", Labels: []trello.CardLabel{{Name: "Chore"}, {Name: "RFC"}}},
	}

	t.Run("declined", func(t *testing.T) {
		remote := &fakeRemote{}
		confirm := &answers{replies: []bool{false}}

		ctx, err := runMigration(t, remote, confirm, board, baseMapping(), false)
		if !errors.Is(err, pipeline.ErrCancelled) {
			t.Fatalf("Expected cancellation, got %v", err)
		}
		if len(confirm.asked) != 1 || !strings.Contains(confirm.asked[0], `"Chore"`) {
			t.Errorf("Expected one question naming Chore, got %v", confirm.asked)
		}
		if len(remote.mutations()) != 0 || ctx.Phase != pipeline.PhaseAborted {
			t.Errorf("Expected no mutation and an aborted run, got %v / %s", remote.mutations(), ctx.Phase)
		}
	})

	t.Run("accepted", func(t *testing.T) {
		remote := &fakeRemote{}
		confirm := &answers{replies: []bool{true}}

		if _, err := runMigration(t, remote, confirm, board, baseMapping(), false); err != nil {
			t.Fatalf("Migration failed: %v", err)
		}
		if labels := remote.issues[0].Labels; len(labels) != 1 || labels[0] != "Request For Comments" {
			t.Errorf("Expected the skipped label to never reach the issue, got %v", labels)
		}
	})

	t.Run("no confirmer", func(t *testing.T) {
		remote := &fakeRemote{}
		if _, err := runMigration(t, remote, nil, board, baseMapping(), false); !errors.Is(err, pipeline.ErrCancelled) {
			t.Errorf("Expected a non-interactive run to decline, got %v", err)
		}
	})
}

func TestMigration_CollisionIsConfirmedAndSkipped(t *testing.T) {
	board := baseBoard()
	board.Cards = []trello.Card{{ID: "c1", Name: "a", ListID: "l-todo", Labels: []trello.CardLabel{{Name: "RFC"}}}}
	remote := &fakeRemote{labels: []reconcile.RemoteLabel{{ID: 1, Name: "request for comments"}}}
	confirm := &answers{replies: []bool{true}}

	ctx, err := runMigration(t, remote, confirm, board, baseMapping(), false)
	if err != nil {
		t.Fatalf("Migration failed: %v", err)
	}
	if len(confirm.asked) != 1 {
		t.Errorf("Expected exactly the collision question, got %v", confirm.asked)
	}
	want := []string{"create_issue a"}
	if got := remote.mutations(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected the colliding label not to be created, got %v", got)
	}
	if len(ctx.Result.LabelsCreated) != 0 {
		t.Errorf("Expected no label recorded as created, got %v", ctx.Result.LabelsCreated)
	}
	if labels := LabelsToCreate(ctx); len(labels) != 0 {
		t.Errorf("Expected nothing left to create, got %v", labels)
	}
}

func TestMigration_DryRunMutatesNothing(t *testing.T) {
	board := baseBoard()
	board.Cards = []trello.Card{{ID: "c1", Name: "a", ListID: "l-todo"}}
	remote := &fakeRemote{}

	ctx, err := runMigration(t, remote, nil, board, baseMapping(), true)
	if err != nil {
		t.Fatalf("Migration failed: %v", err)
	}
	if m := remote.mutations(); len(m) != 0 {
		t.Errorf("Expected no mutation in dry-run, got %v", m)
	}
	if len(ctx.Result.Issues) != 1 || len(ctx.Result.LabelsCreated) != 1 {
		t.Errorf("Expected the plan to be recorded, got %+v", ctx.Result)
	}
	if !ctx.Result.DryRun {
		t.Error("Expected the result to be marked as a dry run")
	}
}

func TestMigration_FailureStopsTheLoop(t *testing.T) {
	board := baseBoard()
	board.Cards = []trello.Card{
		{ID: "c1", Name: "a", ListID: "l-todo"},
		{ID: "c2", Name: "b", ListID: "l-todo"},
		{ID: "c3", Name: "c", ListID: "l-todo"},
	}
	remote := &fakeRemote{failIssue: "b"}

	ctx, err := runMigration(t, remote, nil, board, baseMapping(), false)
	if err == nil || !strings.Contains(err.Error(), "secondary rate limit") {
		t.Fatalf("Expected the create failure, got %v", err)
	}
	if len(ctx.Result.Issues) != 1 {
		t.Errorf("Expected the first issue to stay recorded, got %+v", ctx.Result.Issues)
	}
	for _, c := range remote.calls {
		if c == "create_issue c" {
			t.Error("Expected no issue after the failure")
		}
	}
}

func TestMigration_SkipArchived(t *testing.T) {
	board := baseBoard()
	board.Lists = append(board.Lists, trello.List{ID: "l-old", Name: "Old", Closed: true})
	board.Cards = []trello.Card{
		{ID: "c1", Name: "open", ListID: "l-todo"},
		{ID: "c2", Name: "closed card", ListID: "l-todo", Closed: true},
		{ID: "c3", Name: "closed list", ListID: "l-old"},
	}

	remote := &fakeRemote{}
	deps := &pipeline.Dependencies{GitHub: remote, Projects: remote, Logger: zaptest.NewLogger(t)}
	registry := pipeline.NewRegistry()
	RegisterAll(registry)
	p, err := registry.BuildFromNames(pipeline.MigrationSteps(), deps)
	if err != nil {
		t.Fatalf("Failed to build pipeline: %v", err)
	}

	cfg := &config.Config{Migration: config.MigrationConfig{SkipArchived: true}}
	ctx := pipeline.NewContext(context.Background(), cfg, board, baseMapping())
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	if len(remote.issues) != 1 || remote.issues[0].Title != "open" {
		t.Errorf("Expected only the open card, got %+v", remote.issues)
	}
	if ctx.Result.SkippedCards != 2 {
		t.Errorf("Expected 2 skipped cards, got %d", ctx.Result.SkippedCards)
	}
	if n := CardsToMigrate(ctx); n != 1 {
		t.Errorf("Expected CardsToMigrate to count 1 card, got %d", n)
	}
}

func TestMigration_UnresolvedAssigneesWarn(t *testing.T) {
	board := baseBoard()
	board.Cards = []trello.Card{{ID: "c1", Name: "a", ListID: "l-todo", MemberIDs: []string{"m1", "m-unknown"}}}
	doc := baseMapping()
	doc.Users = []mapping.UserMapping{{Trello: "ada", GitHub: "ada-gh"}}
	remote := &fakeRemote{users: map[string]string{"ada-gh": "Ada-GH"}}

	ctx, err := runMigration(t, remote, nil, board, doc, false)
	if err != nil {
		t.Fatalf("Migration failed: %v", err)
	}
	if a := remote.issues[0].Assignees; len(a) != 1 || a[0] != "Ada-GH" {
		t.Errorf("Expected assignee Ada-GH, got %v", a)
	}
	if len(ctx.Result.Warnings) != 1 || !strings.Contains(ctx.Result.Warnings[0], "m-unknown") {
		t.Errorf("Expected a warning for the unmapped member, got %v", ctx.Result.Warnings)
	}
}
