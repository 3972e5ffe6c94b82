// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/similigh/trello2gh/internal/core/pipeline"
	"github.com/similigh/trello2gh/internal/reconcile"
)

// Reconcile classifies labels, lists and members and aggregates every
// blocking problem into one validation error.
type Reconcile struct {
	users reconcile.UserLookup
	log   *zap.Logger
}

// NewReconcile creates a new reconcile step.
func NewReconcile(deps *pipeline.Dependencies) *Reconcile {
	s := &Reconcile{log: deps.Log("reconcile")}
	if deps.GitHub != nil {
		s.users = deps.GitHub
	}
	return s
}

// Name returns the step name.
func (s *Reconcile) Name() string {
	return "reconcile"
}

// Phase returns the driver phase.
func (s *Reconcile) Phase() pipeline.Phase {
	return pipeline.PhaseValidating
}

// Run builds the lookup tables on the context.
func (s *Reconcile) Run(ctx *pipeline.Context) error {
	if ctx.Remote == nil {
		return fmt.Errorf("remote state not fetched")
	}
	if s.users == nil {
		return fmt.Errorf("github client not configured")
	}
	board, doc := ctx.Board, ctx.Mapping

	labels := reconcile.ReconcileLabels(board.Labels, doc.Labels, ctx.Remote.Labels)
	labels = append(labels, reconcile.ReconcileListLabels(doc.Lists, board, ctx.Remote.Labels)...)

	lists := reconcile.ClassifyLists(doc.Lists, doc.SkipLists, board, ctx.Remote.Milestones, ctx.Remote.Project)

	// A lookup failure other than "not found" stops the run here, unaggregated.
	members, err := reconcile.ResolveMembers(ctx.Ctx, doc.Users, s.users)
	if err != nil {
		return err
	}

	ctx.Labels = labels
	ctx.Lists = lists
	ctx.Members = members

	var problems []string
	problems = append(problems, labels.Problems()...)
	problems = append(problems, lists.Problems()...)
	problems = append(problems, members.Problems()...)

	s.log.Info("Reconciled board",
		zap.Int("labels_to_create", len(labels.ToCreate())),
		zap.Int("labels_skipped", len(labels.Skipped())),
		zap.Int("lists_skipped", len(lists.SkippedLists(board))),
		zap.Int("members", len(members)),
		zap.Int("problems", len(problems)))

	if len(problems) > 0 {
		return &pipeline.ValidationError{Problems: problems}
	}
	return nil
}
