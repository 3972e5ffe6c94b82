// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/similigh/trello2gh/internal/core/config"
	"github.com/similigh/trello2gh/internal/core/pipeline"
	"github.com/similigh/trello2gh/internal/integrations/github"
	trelloapi "github.com/similigh/trello2gh/internal/integrations/trello"
	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/trello"
	"github.com/similigh/trello2gh/internal/tui"
)

var (
	boardSource   string
	mappingFile   string
	dryRun        bool
	assumeYes     bool
	reportFile    string
	reportFmt     string
	skipArchived  bool
	noInteractive bool
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate a Trello board into GitHub Issues",
	Long: `Migrate every card of a Trello board export into an issue of the target
repository named in the mapping file.

The board is read from a JSON export file or a Trello board URL. The target
repository is checked first: mapped labels, lists, milestones, project
statuses and users must all exist. Every problem is reported at once and
nothing is created until the check passes and the plan is confirmed.

Examples:
  trello2gh migrate --board board.json --mapping mapping.yaml
  trello2gh migrate --board https://trello.com/b/AbCd1234/roadmap --mapping mapping.toml --dry-run
  trello2gh migrate --board board.json --mapping mapping.yaml --yes --report results.csv`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	addInputFlags(migrateCmd)
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and render everything without creating anything")
	migrateCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation")
	migrateCmd.Flags().StringVar(&reportFile, "report", "", "Write a report of created issues (.json or .csv)")
	migrateCmd.Flags().StringVar(&reportFmt, "format", "", "Report format: json or csv (default: from --report extension)")
	migrateCmd.Flags().BoolVar(&skipArchived, "skip-archived", false, "Do not migrate archived cards or cards in closed lists")
	migrateCmd.Flags().BoolVar(&noInteractive, "no-tui", false, "Disable the progress view")
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&boardSource, "board", "b", "", "Trello board export file or board URL (required)")
	cmd.Flags().StringVarP(&mappingFile, "mapping", "m", "", "Mapping file, YAML or TOML (required)")
	_ = cmd.MarkFlagRequired("board")
	_ = cmd.MarkFlagRequired("mapping")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("skip-archived") {
		cfg.Migration.SkipArchived = skipArchived
	}

	board, doc, err := loadInputs(ctx, cfg, boardSource, mappingFile)
	if err != nil {
		return err
	}

	deps, err := newDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	deps.DryRun = dryRun
	deps.Confirmer = newConfirmer(assumeYes, isInteractive())

	pCtx := pipeline.NewContext(ctx, cfg, board, doc)
	logger.Info("Starting migration",
		zap.String("run_id", pCtx.Result.RunID),
		zap.String("board", board.Name),
		zap.String("repository", doc.Repo.String()),
		zap.Bool("dry_run", dryRun))

	printPlan := func(c *pipeline.Context) {
		fmt.Print(tui.RenderPlan(c))
		fmt.Println()
	}
	if err := runPreset(pCtx, "plan", deps, map[string]func(*pipeline.Context){"reconcile": printPlan}); err != nil {
		return err
	}

	var runErr error
	if useTUI() {
		runErr = runPresetWithTUI(pCtx, "execute", deps)
	} else {
		runErr = runPreset(pCtx, "execute", deps, nil)
	}

	// Partial results are still worth reporting after a failure.
	fmt.Print(tui.RenderSummary(pCtx.Result))
	if reportFile != "" {
		if err := writeReport(reportFile, reportFmt, pCtx); err != nil {
			logger.Error("Failed to write report", zap.Error(err))
		}
	}

	return runErr
}

// loadInputs reads and validates the board export and the mapping file.
func loadInputs(ctx context.Context, cfg *config.Config, source, mappingPath string) (*trello.Board, *mapping.Document, error) {
	data, err := trelloapi.NewFetcher(cfg.Trello.APIKey, cfg.Trello.Token).Fetch(ctx, source)
	if err != nil {
		return nil, nil, err
	}

	board, err := trello.Parse(data)
	if err != nil {
		return nil, nil, err
	}

	doc, err := mapping.Load(mappingPath)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("Loaded inputs",
		zap.String("board", board.Name),
		zap.Int("cards", len(board.Cards)),
		zap.Int("labels", len(doc.Labels)),
		zap.Int("lists", len(doc.Lists)),
		zap.Int("users", len(doc.Users)))

	return board, doc, nil
}

// newDependencies builds the GitHub clients from the configuration.
func newDependencies(ctx context.Context, cfg *config.Config) (*pipeline.Dependencies, error) {
	if cfg.GitHub.Token == "" {
		return nil, fmt.Errorf("GitHub token not set (use GITHUB_TOKEN or github.token in the config file)")
	}

	gh, err := github.NewClient(ctx, cfg.GitHub.Token, cfg.GitHub.APIURL)
	if err != nil {
		return nil, err
	}
	gql := github.NewGraphQLClient(github.HTTPClient(ctx, cfg.GitHub.Token), cfg.GitHub.Token).
		WithEndpoint(cfg.GitHub.GraphQLURL)

	return &pipeline.Dependencies{
		GitHub:   gh,
		Projects: gql,
		Logger:   logger,
	}, nil
}

// autoConfirm answers every question.
type autoConfirm bool

func (a autoConfirm) Confirm(question string) (bool, error) {
	logger.Info("Auto-confirming", zap.String("question", question), zap.Bool("answer", bool(a)))
	return bool(a), nil
}

// newConfirmer picks how questions are answered. Without a terminal and
// without --yes every question is declined.
func newConfirmer(yes, interactive bool) pipeline.Confirmer {
	switch {
	case yes:
		return autoConfirm(true)
	case interactive:
		return tui.Prompter{}
	default:
		return nil
	}
}

// isInteractive reports whether a user can answer prompts.
func isInteractive() bool {
	if os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true" {
		return false
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// useTUI reports whether to show the progress view. Verbose logs go to
// stderr and would garble it.
func useTUI() bool {
	return !noInteractive && !verbose && isInteractive()
}
