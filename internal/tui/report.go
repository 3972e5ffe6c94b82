// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package tui

import (
	"fmt"
	"strings"

	"github.com/similigh/trello2gh/internal/core/pipeline"
	"github.com/similigh/trello2gh/internal/reconcile"
	"github.com/similigh/trello2gh/internal/steps"
)

var headingStyle = titleStyle.MarginBottom(0)

// RenderProblems renders an aggregated validation report.
func RenderProblems(problems []string) string {
	var s strings.Builder
	s.WriteString(errorStepStyle.Bold(true).Render(fmt.Sprintf("✗ %d problem(s) must be fixed before migrating:", len(problems))))
	s.WriteString("\n")
	for _, p := range problems {
		s.WriteString(errorStepStyle.Render("  • "+p) + "\n")
	}
	return s.String()
}

// RenderPlan renders what a migration would do, from a validated context.
func RenderPlan(ctx *pipeline.Context) string {
	var s strings.Builder

	s.WriteString(headingStyle.Render(fmt.Sprintf("Board %q → %s", ctx.Board.Name, ctx.Target)))
	s.WriteString("\n\n")

	s.WriteString(activeStepStyle.Render("Labels") + "\n")
	for _, c := range ctx.Labels {
		s.WriteString(renderClassified(c) + "\n")
	}

	if skipped := ctx.Lists.SkippedLists(ctx.Board); len(skipped) > 0 {
		s.WriteString("\n" + activeStepStyle.Render("Skipped lists") + "\n")
		for _, l := range skipped {
			s.WriteString(subtleStyle.Render("  ○ "+l.Name) + "\n")
		}
	}

	if len(ctx.Members) > 0 {
		s.WriteString("\n" + activeStepStyle.Render("Users") + "\n")
		for _, m := range ctx.Members {
			if m.Valid() {
				s.WriteString(doneStepStyle.Render(fmt.Sprintf("  ✓ %s → @%s", m.TrelloName, m.Login)) + "\n")
			} else {
				s.WriteString(errorStepStyle.Render(fmt.Sprintf("  ✗ %s → @%s (not found)", m.TrelloName, m.Requested)) + "\n")
			}
		}
	}

	cards := steps.CardsToMigrate(ctx)
	s.WriteString("\n" + stepStyle.Render(fmt.Sprintf("%d of %d card(s) will become issues.", cards, len(ctx.Board.Cards))) + "\n")

	return s.String()
}

func renderClassified(c reconcile.Classified) string {
	switch v := c.(type) {
	case reconcile.Skipped:
		return subtleStyle.Render(fmt.Sprintf("  ○ %s (no mapping, dropped)", v.Label.Name))
	case reconcile.ToCreate:
		return doneStepStyle.Render(fmt.Sprintf("  + %s → %s (create #%s)", v.Label.Name, v.Name, v.Color))
	case reconcile.Mapped:
		return doneStepStyle.Render(fmt.Sprintf("  ✓ %s → %s", v.Label.Name, v.Remote.Name))
	case reconcile.Missing:
		return errorStepStyle.Render(fmt.Sprintf("  ✗ %s → %s (not found)", v.Label.Name, v.Key))
	case reconcile.ListMapped:
		return doneStepStyle.Render(fmt.Sprintf("  ✓ list %s → %s", v.List.Name, v.Remote.Name))
	case reconcile.MissingList:
		return errorStepStyle.Render(fmt.Sprintf("  ✗ list %s → %s (not found)", v.List.Name, v.Key))
	default:
		panic(fmt.Sprintf("tui: unhandled label classification %T", c))
	}
}

// RenderSummary renders the outcome of an executed migration.
func RenderSummary(result *pipeline.Result) string {
	var s strings.Builder

	verb := "Created"
	if result.DryRun {
		verb = "Would create"
	}

	s.WriteString(doneStepStyle.Bold(true).Render(fmt.Sprintf("✓ %s %d issue(s) and %d label(s)", verb, len(result.Issues), len(result.LabelsCreated))))
	s.WriteString("\n")
	if result.SkippedCards > 0 {
		s.WriteString(subtleStyle.Render(fmt.Sprintf("  %d card(s) skipped", result.SkippedCards)) + "\n")
	}
	for _, w := range result.Warnings {
		s.WriteString(warnStyle.Render("  ! "+w) + "\n")
	}
	s.WriteString(subtleStyle.Render("  run "+result.RunID) + "\n")

	return s.String()
}
