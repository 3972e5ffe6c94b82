// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/similigh/trello2gh/internal/core/pipeline"
	"github.com/similigh/trello2gh/internal/reconcile"
)

// CreateLabels creates every label classified for creation, in order.
type CreateLabels struct {
	github pipeline.GitHub
	dryRun bool
	deps   *pipeline.Dependencies
	log    *zap.Logger
}

// NewCreateLabels creates a new create_labels step.
func NewCreateLabels(deps *pipeline.Dependencies) *CreateLabels {
	return &CreateLabels{
		github: deps.GitHub,
		dryRun: deps.DryRun,
		deps:   deps,
		log:    deps.Log("create_labels"),
	}
}

// Name returns the step name.
func (s *CreateLabels) Name() string {
	return "create_labels"
}

// Phase returns the driver phase.
func (s *CreateLabels) Phase() pipeline.Phase {
	return pipeline.PhaseExecuting
}

// Run creates the labels. Labels whose name already exists remotely were
// confirmed as skipped and are not created.
func (s *CreateLabels) Run(ctx *pipeline.Context) error {
	if s.github == nil && !s.dryRun {
		return fmt.Errorf("github client not configured")
	}
	ctx.Result.DryRun = s.dryRun

	for _, label := range LabelsToCreate(ctx) {
		if s.dryRun {
			s.log.Info("DRY RUN: Would create label",
				zap.String("label", label.Name),
				zap.String("color", label.Color))
		} else {
			if err := s.github.CreateLabel(ctx.Ctx, ctx.Target.Owner, ctx.Target.Name, label.Name, label.Color); err != nil {
				return err
			}
			s.log.Info("Created label", zap.String("label", label.Name))
		}

		ctx.Result.LabelsCreated = append(ctx.Result.LabelsCreated, label.Name)
		s.deps.Report(s.Name(), "label "+label.Name)
	}

	return nil
}

// LabelsToCreate returns the labels create_labels will create, one per
// GitHub name. Several Trello labels may share a name; the first one's color
// wins. Names that already exist remotely are left out. GitHub compares
// label names case-insensitively.
func LabelsToCreate(ctx *pipeline.Context) []reconcile.ToCreate {
	seen := make(map[string]bool)
	if ctx.Remote != nil {
		for _, c := range ctx.Labels.Collisions(ctx.Remote.Labels) {
			seen[strings.ToLower(c.Name)] = true
		}
	}

	var out []reconcile.ToCreate
	for _, label := range ctx.Labels.ToCreate() {
		key := strings.ToLower(label.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, label)
	}
	return out
}
