// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package steps

import (
	"github.com/similigh/trello2gh/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("fetch_remote", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewFetchRemote(deps), nil
	})

	r.Register("reconcile", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewReconcile(deps), nil
	})

	r.Register("confirm", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewConfirm(deps), nil
	})

	r.Register("create_labels", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewCreateLabels(deps), nil
	})

	r.Register("create_issues", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewCreateIssues(deps), nil
	})
}
