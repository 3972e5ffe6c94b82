// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/similigh/trello2gh/internal/integrations/github"
	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/reconcile"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
// It receives dependencies (like clients, config) as parameters.
type StepFactory func(deps *Dependencies) (Step, error)

// GitHub is the repository side of the target.
type GitHub interface {
	reconcile.UserLookup
	ListLabels(ctx context.Context, org, repo string) ([]reconcile.RemoteLabel, error)
	ListMilestones(ctx context.Context, org, repo string) ([]reconcile.Milestone, error)
	CreateLabel(ctx context.Context, org, repo, name, color string) error
	CreateIssue(ctx context.Context, org, repo string, req github.IssueRequest) (*github.CreatedIssue, error)
	CreateComment(ctx context.Context, org, repo string, number int, body string) error
}

// Projects is the GitHub Projects side of the target.
type Projects interface {
	ProjectInfo(ctx context.Context, owner string, ownerType mapping.OwnerType, number int) (*reconcile.ProjectInfo, error)
	AddProjectItem(ctx context.Context, projectID, contentNodeID string) (string, error)
	SetProjectItemStatus(ctx context.Context, projectID, itemID, fieldID, optionID string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	GitHub    GitHub
	Projects  Projects
	Confirmer Confirmer
	Logger    *zap.Logger

	// DryRun logs every create call instead of issuing it.
	DryRun bool

	// Progress, when set, receives per-step progress messages.
	Progress func(step, message string)
}

// Log returns the named logger for a step, never nil.
func (d *Dependencies) Log(step string) *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger.Named(step)
}

// Report forwards a progress message if anyone listens.
func (d *Dependencies) Report(step, message string) {
	if d.Progress != nil {
		d.Progress(step, message)
	}
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// plan: validate against the live target and ask for confirmation
	"plan": {
		"fetch_remote",
		"reconcile",
		"confirm",
	},

	// execute: create labels, then issues in card order
	"execute": {
		"create_labels",
		"create_issues",
	},

	// check: validation only, nothing is created or asked
	"check": {
		"fetch_remote",
		"reconcile",
	},
}

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// MigrationSteps returns the full migration in order: plan, then execute.
func MigrationSteps() []string {
	var names []string
	names = append(names, Presets["plan"]...)
	names = append(names, Presets["execute"]...)
	return names
}
