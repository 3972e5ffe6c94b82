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
)

// Confirm asks before dropping unmapped labels and before skipping labels
// that already exist on GitHub.
type Confirm struct {
	confirmer pipeline.Confirmer
	log       *zap.Logger
}

// NewConfirm creates a new confirm step.
func NewConfirm(deps *pipeline.Dependencies) *Confirm {
	return &Confirm{
		confirmer: deps.Confirmer,
		log:       deps.Log("confirm"),
	}
}

// Name returns the step name.
func (s *Confirm) Name() string {
	return "confirm"
}

// Phase returns the driver phase.
func (s *Confirm) Phase() pipeline.Phase {
	return pipeline.PhaseConfirming
}

// Run asks up to two questions. Declining either cancels the run.
func (s *Confirm) Run(ctx *pipeline.Context) error {
	if skipped := ctx.Labels.Skipped(); len(skipped) > 0 {
		names := make([]string, 0, len(skipped))
		for _, l := range skipped {
			names = append(names, quote(l.Label.Name))
		}
		question := fmt.Sprintf("%d Trello label(s) have no mapping and will not be migrated: %s. Continue?",
			len(skipped), strings.Join(names, ", "))
		if err := s.ask(question); err != nil {
			return err
		}
	}

	if collisions := ctx.Labels.Collisions(ctx.Remote.Labels); len(collisions) > 0 {
		names := make([]string, 0, len(collisions))
		for _, c := range collisions {
			names = append(names, quote(c.Name))
		}
		question := fmt.Sprintf("%d label(s) to create already exist on GitHub and will not be created again: %s. Continue?",
			len(collisions), strings.Join(names, ", "))
		if err := s.ask(question); err != nil {
			return err
		}
	}

	return nil
}

// ask returns ErrCancelled unless the user agrees. Without a confirmer the
// answer is no.
func (s *Confirm) ask(question string) error {
	if s.confirmer == nil {
		s.log.Warn("No way to confirm, declining", zap.String("question", question))
		return pipeline.ErrCancelled
	}

	ok, err := s.confirmer.Confirm(question)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Info("User declined", zap.String("question", question))
		return pipeline.ErrCancelled
	}
	return nil
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
