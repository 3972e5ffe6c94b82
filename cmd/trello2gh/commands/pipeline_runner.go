// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package commands

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/similigh/trello2gh/internal/core/pipeline"
	"github.com/similigh/trello2gh/internal/steps"
	"github.com/similigh/trello2gh/internal/tui"
)

// Wrapper step to send status updates
type statusReportingStep struct {
	inner      pipeline.Step
	statusChan chan<- tui.PipelineStatusMsg
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Phase() pipeline.Phase {
	return s.inner.Phase()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "started", Message: "Starting..."}
	time.Sleep(100 * time.Millisecond) // Artificial delay for visual effect

	err := s.inner.Run(ctx)

	if err != nil {
		if errors.Is(err, pipeline.ErrCancelled) {
			s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "cancelled", Message: err.Error()}
			return err
		}
		s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "error", Message: err.Error()}
		return err
	}

	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: "success", Message: "Completed"}
	return nil
}

// afterStep runs a hook once the wrapped step has succeeded.
type afterStep struct {
	pipeline.Step
	after func(ctx *pipeline.Context)
}

func (s *afterStep) Run(ctx *pipeline.Context) error {
	if err := s.Step.Run(ctx); err != nil {
		return err
	}
	s.after(ctx)
	return nil
}

// buildSteps resolves step names against the built-in registry.
func buildSteps(names []string, deps *pipeline.Dependencies) ([]pipeline.Step, error) {
	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	built, err := registry.BuildFromNames(names, deps)
	if err != nil {
		return nil, err
	}
	return built.Steps(), nil
}

// runPreset runs a preset plainly, calling hooks after the named steps.
func runPreset(pCtx *pipeline.Context, preset string, deps *pipeline.Dependencies, hooks map[string]func(*pipeline.Context)) error {
	names, ok := pipeline.GetPreset(preset)
	if !ok {
		return fmt.Errorf("unknown preset: %s", preset)
	}

	built, err := buildSteps(names, deps)
	if err != nil {
		return err
	}

	p := pipeline.New()
	for _, step := range built {
		if hook, ok := hooks[step.Name()]; ok {
			step = &afterStep{Step: step, after: hook}
		}
		p.AddStep(step)
	}

	return p.Run(pCtx)
}

// runPresetWithTUI runs a preset behind the progress view. Step progress
// reported through deps is forwarded to the view as well.
func runPresetWithTUI(pCtx *pipeline.Context, preset string, deps *pipeline.Dependencies) error {
	names, ok := pipeline.GetPreset(preset)
	if !ok {
		return fmt.Errorf("unknown preset: %s", preset)
	}

	statusChan := make(chan tui.PipelineStatusMsg, 16)
	// Only warnings may interrupt the view.
	if deps.Logger != nil {
		deps.Logger = deps.Logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}
	deps.Progress = func(step, message string) {
		statusChan <- tui.PipelineStatusMsg{Step: step, Status: "progress", Message: message}
	}

	built, err := buildSteps(names, deps)
	if err != nil {
		return err
	}

	p := pipeline.New()
	for _, step := range built {
		p.AddStep(&statusReportingStep{inner: step, statusChan: statusChan})
	}

	title := fmt.Sprintf("Migrating %q → %s", pCtx.Board.Name, pCtx.Target)
	model := tui.NewModel(title, names, statusChan).
		WithTotal("create_labels", len(steps.LabelsToCreate(pCtx))).
		WithTotal("create_issues", steps.CardsToMigrate(pCtx))

	show := func() error {
		final, err := tea.NewProgram(model).Run()
		if err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		if m, ok := final.(tui.Model); ok && m.Hidden() {
			fmt.Println("Progress hidden. Waiting for the migration to finish...")
		}
		return nil
	}

	return runBehindView(pCtx, p, statusChan, show)
}

// runBehindView runs the pipeline while show displays its progress. Once
// executing, the run always finishes on its own context: closing the view or
// a view failure only stops the display.
func runBehindView(pCtx *pipeline.Context, p *pipeline.Pipeline, statusChan chan tui.PipelineStatusMsg, show func() error) error {
	errChan := make(chan error, 1)
	go func() {
		defer close(statusChan)
		errChan <- p.Run(pCtx)
	}()

	showErr := show()

	// Keep draining so steps never block on a closed view.
	go func() {
		for range statusChan {
		}
	}()

	if err := <-errChan; err != nil {
		return err
	}
	if showErr != nil {
		logger.Warn("Progress view failed", zap.Error(showErr))
	}
	return nil
}
