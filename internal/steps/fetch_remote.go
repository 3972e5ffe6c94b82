// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package steps contains the migration pipeline steps.
// Each step implements the pipeline.Step interface.
package steps

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/similigh/trello2gh/internal/core/pipeline"
	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/reconcile"
)

// FetchRemote reads the current labels, milestones and project of the target.
type FetchRemote struct {
	github   pipeline.GitHub
	projects pipeline.Projects
	log      *zap.Logger
}

// NewFetchRemote creates a new fetch_remote step.
func NewFetchRemote(deps *pipeline.Dependencies) *FetchRemote {
	return &FetchRemote{
		github:   deps.GitHub,
		projects: deps.Projects,
		log:      deps.Log("fetch_remote"),
	}
}

// Name returns the step name.
func (s *FetchRemote) Name() string {
	return "fetch_remote"
}

// Phase returns the driver phase.
func (s *FetchRemote) Phase() pipeline.Phase {
	return pipeline.PhaseValidating
}

// Run fetches the remote snapshot. Each remote resource is read exactly once.
func (s *FetchRemote) Run(ctx *pipeline.Context) error {
	if s.github == nil {
		return fmt.Errorf("github client not configured")
	}
	target := ctx.Target

	labels, err := s.github.ListLabels(ctx.Ctx, target.Owner, target.Name)
	if err != nil {
		return err
	}

	milestones, err := s.github.ListMilestones(ctx.Ctx, target.Owner, target.Name)
	if err != nil {
		return err
	}

	remote := &reconcile.RemoteState{
		Labels:     labels,
		Milestones: milestones,
	}

	if ctx.Mapping.HasProject() {
		if s.projects == nil {
			return fmt.Errorf("projects client not configured")
		}
		ownerType := target.OwnerType
		if ownerType == "" {
			ownerType = mapping.OwnerUser
		}
		project, err := s.projects.ProjectInfo(ctx.Ctx, target.Owner, ownerType, *ctx.Mapping.Project)
		if err != nil {
			return err
		}
		remote.Project = project
		s.log.Debug("Fetched project",
			zap.String("title", project.Title),
			zap.Int("status_options", len(project.StatusOptions)))
	}

	ctx.Remote = remote
	s.log.Info("Fetched remote state",
		zap.String("repo", target.String()),
		zap.Int("labels", len(labels)),
		zap.Int("milestones", len(milestones)))

	return nil
}
