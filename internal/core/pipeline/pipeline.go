// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package pipeline provides the migration driver for trello2gh.
// It defines the Step interface and the Context shared by all pipeline steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/similigh/trello2gh/internal/core/config"
	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/reconcile"
	"github.com/similigh/trello2gh/internal/trello"
)

// ErrCancelled indicates that the user declined to proceed.
// This is not a failure; the run stops before any mutation.
var ErrCancelled = errors.New("migration cancelled by user")

// Phase is a state of the migration driver.
type Phase string

const (
	PhaseValidating Phase = "validating"
	PhaseConfirming Phase = "confirming"
	PhaseExecuting  Phase = "executing"
	PhaseDone       Phase = "done"
	PhaseAborted    Phase = "aborted"
)

// ValidationError aggregates every problem found while validating.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "validation failed: " + e.Problems[0]
	}
	return fmt.Sprintf("validation failed with %d problems:\n  - %s", len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Phase returns the driver phase the step belongs to.
	Phase() Phase

	// Run executes the step's logic.
	// It should return ErrCancelled or a *ValidationError to abort the run,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// CreatedIssue records one migrated card.
type CreatedIssue struct {
	CardID        string `json:"card_id"`
	CardName      string `json:"card_name"`
	Number        int    `json:"number"`
	URL           string `json:"url"`
	Comments      int    `json:"comments"`
	ProjectItemID string `json:"project_item_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Result holds the accumulated results from pipeline execution.
type Result struct {
	RunID         string         `json:"run_id"`
	DryRun        bool           `json:"dry_run"`
	LabelsCreated []string       `json:"labels_created"`
	Issues        []CreatedIssue `json:"issues"`
	SkippedCards  int            `json:"skipped_cards"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Config is the loaded tool configuration.
	Config *config.Config

	// Board is the parsed Trello export.
	Board *trello.Board

	// Mapping is the validated mapping document.
	Mapping *mapping.Document

	// Target is the repository every remote call addresses.
	Target mapping.Repo

	// Phase is the current driver phase.
	Phase Phase

	// Remote is the read-only snapshot of the target, set by fetch_remote.
	Remote *reconcile.RemoteState

	// Lookup tables built during validation and read-only afterwards.
	Labels  reconcile.Labels
	Lists   *reconcile.ListPlan
	Members reconcile.Members

	// Result accumulates the processing results.
	Result *Result
}

// NewContext creates a new pipeline context for one migration run.
func NewContext(ctx context.Context, cfg *config.Config, board *trello.Board, doc *mapping.Document) *Context {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Context{
		Ctx:     ctx,
		Config:  cfg,
		Board:   board,
		Mapping: doc,
		Target:  doc.Repo,
		Phase:   PhaseValidating,
		Result:  &Result{RunID: uuid.NewString()},
	}
}

// Warn records a non-fatal problem for the final summary.
func (c *Context) Warn(format string, args ...interface{}) {
	c.Result.Warnings = append(c.Result.Warnings, fmt.Sprintf(format, args...))
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order and stops on the first error.
// Validation failures and cancellations before execution move the context
// to PhaseAborted; a run that finishes its execution steps ends in PhaseDone.
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		ctx.Phase = step.Phase()
		if err := step.Run(ctx); err != nil {
			if ctx.Phase == PhaseValidating || ctx.Phase == PhaseConfirming {
				ctx.Phase = PhaseAborted
			}
			if errors.Is(err, ErrCancelled) {
				return err
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	if ctx.Phase == PhaseExecuting {
		ctx.Phase = PhaseDone
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}
