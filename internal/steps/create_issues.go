// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/similigh/trello2gh/internal/core/pipeline"
	"github.com/similigh/trello2gh/internal/integrations/github"
	"github.com/similigh/trello2gh/internal/render"
	"github.com/similigh/trello2gh/internal/trello"
)

// CreateIssues renders every migrated card and creates its issue, comments
// and project item, one card at a time in board order.
type CreateIssues struct {
	github   pipeline.GitHub
	projects pipeline.Projects
	dryRun   bool
	deps     *pipeline.Dependencies
	log      *zap.Logger
}

// NewCreateIssues creates a new create_issues step.
func NewCreateIssues(deps *pipeline.Dependencies) *CreateIssues {
	return &CreateIssues{
		github:   deps.GitHub,
		projects: deps.Projects,
		dryRun:   deps.DryRun,
		deps:     deps,
		log:      deps.Log("create_issues"),
	}
}

// Name returns the step name.
func (s *CreateIssues) Name() string {
	return "create_issues"
}

// Phase returns the driver phase.
func (s *CreateIssues) Phase() pipeline.Phase {
	return pipeline.PhaseExecuting
}

// Run migrates the cards. Any remote failure stops the run; issues created
// so far are left in place.
func (s *CreateIssues) Run(ctx *pipeline.Context) error {
	if s.github == nil && !s.dryRun {
		return fmt.Errorf("github client not configured")
	}
	project := ctx.Remote.Project
	if project != nil && s.projects == nil && !s.dryRun {
		return fmt.Errorf("projects client not configured")
	}

	loc, err := ctx.Config.Location()
	if err != nil {
		return err
	}
	renderer := render.New(ctx.Board, ctx.Labels, ctx.Members, ctx.Lists, render.Options{
		DateLayout: ctx.Config.Output.DateFormat,
		Location:   loc,
	})

	for _, card := range ctx.Board.Cards {
		if reason, skip := skipReason(ctx, card); skip {
			s.log.Debug("Skipping card", zap.String("card", card.Name), zap.String("reason", reason))
			ctx.Result.SkippedCards++
			continue
		}

		issue := renderer.Render(card)
		if len(issue.UnresolvedMembers) > 0 {
			ctx.Warn("card %q: members %s have no GitHub user and were not assigned",
				card.Name, strings.Join(issue.UnresolvedMembers, ", "))
		}

		created, err := s.migrate(ctx, issue)
		if err != nil {
			return fmt.Errorf("card %q: %w", card.Name, err)
		}
		ctx.Result.Issues = append(ctx.Result.Issues, *created)

		if created.Number > 0 {
			s.deps.Report(s.Name(), fmt.Sprintf("#%d %s", created.Number, card.Name))
		} else {
			s.deps.Report(s.Name(), card.Name)
		}
	}

	s.log.Info("Migrated cards",
		zap.Int("issues", len(ctx.Result.Issues)),
		zap.Int("skipped", ctx.Result.SkippedCards))
	return nil
}

// CardsToMigrate counts the cards that will become issues.
func CardsToMigrate(ctx *pipeline.Context) int {
	n := 0
	for _, card := range ctx.Board.Cards {
		if _, skip := skipReason(ctx, card); !skip {
			n++
		}
	}
	return n
}

// skipReason reports why a card is left out, if it is.
func skipReason(ctx *pipeline.Context, card trello.Card) (string, bool) {
	if ctx.Lists.IsSkipped(card.ListID) {
		return "list skipped", true
	}
	if ctx.Config != nil && ctx.Config.Migration.SkipArchived {
		if card.Closed {
			return "card archived", true
		}
		if list, ok := ctx.Board.List(card.ListID); ok && list.Closed {
			return "list archived", true
		}
	}
	return "", false
}

// migrate creates the issue for one card, then its comments, then places it
// on the project.
func (s *CreateIssues) migrate(ctx *pipeline.Context, issue render.Issue) (*pipeline.CreatedIssue, error) {
	record := &pipeline.CreatedIssue{
		CardID:   issue.CardID,
		CardName: issue.Title,
		Comments: len(issue.Comments),
	}
	if issue.Status != nil {
		record.Status = issue.Status.Name
	}

	if s.dryRun {
		s.log.Info("DRY RUN: Would create issue",
			zap.String("title", issue.Title),
			zap.Strings("labels", issue.Labels),
			zap.Strings("assignees", issue.Assignees),
			zap.Int("comments", len(issue.Comments)),
			zap.String("status", record.Status))
		return record, nil
	}

	owner, repo := ctx.Target.Owner, ctx.Target.Name
	start := time.Now()

	created, err := s.github.CreateIssue(ctx.Ctx, owner, repo, github.IssueRequest{
		Title:     issue.Title,
		Body:      issue.Body,
		Labels:    issue.Labels,
		Assignees: issue.Assignees,
		Milestone: issue.Milestone,
	})
	if err != nil {
		return nil, err
	}
	record.Number = created.Number
	record.URL = created.URL

	for _, body := range issue.Comments {
		if err := s.github.CreateComment(ctx.Ctx, owner, repo, created.Number, body); err != nil {
			return nil, err
		}
	}

	if project := ctx.Remote.Project; project != nil {
		itemID, err := s.projects.AddProjectItem(ctx.Ctx, project.ID, created.NodeID)
		if err != nil {
			return nil, err
		}
		record.ProjectItemID = itemID

		if issue.Status != nil {
			if err := s.projects.SetProjectItemStatus(ctx.Ctx, project.ID, itemID, project.StatusFieldID, issue.Status.ID); err != nil {
				return nil, err
			}
		}
	}

	s.log.Info("Created issue",
		zap.Int("number", created.Number),
		zap.String("title", issue.Title),
		zap.Duration("took", time.Since(start)))

	return record, nil
}
