// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/similigh/trello2gh/internal/core/pipeline"
	"github.com/similigh/trello2gh/internal/tui"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a board and mapping against the target repository",
	Long: `Check the mapping file against the board export and the live target
repository, then print the migration plan. Nothing is created and nothing
is asked.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addInputFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	board, doc, err := loadInputs(ctx, cfg, boardSource, mappingFile)
	if err != nil {
		return err
	}

	deps, err := newDependencies(ctx, cfg)
	if err != nil {
		return err
	}

	pCtx := pipeline.NewContext(ctx, cfg, board, doc)
	if err := runPreset(pCtx, "check", deps, nil); err != nil {
		return err
	}

	fmt.Print(tui.RenderPlan(pCtx))
	fmt.Println("\n✓ Mapping is valid")
	return nil
}
