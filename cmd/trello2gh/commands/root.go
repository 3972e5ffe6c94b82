// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package commands implements the trello2gh command line.
package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/similigh/trello2gh/internal/core/config"
	"github.com/similigh/trello2gh/internal/core/pipeline"
	"github.com/similigh/trello2gh/internal/mapping"
	"github.com/similigh/trello2gh/internal/trello"
	"github.com/similigh/trello2gh/internal/tui"
)

// Version is set at build time.
var Version = "dev"

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "trello2gh",
	Short: "Migrate a Trello board to GitHub Issues",
	Long: `trello2gh migrates a Trello board export into GitHub Issues and,
optionally, a GitHub Project. Cards, labels, assignees, checklists, comments
and list placement are carried over according to a mapping file.

Nothing is created until every label, list, milestone, status and user in the
mapping has been checked against the target repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		zap.ReplaceGlobals(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: .trello2gh.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging (disables the progress view)")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	_ = logger.Sync()
	return exitCode(err)
}

// exitCode prints err for the user and maps it to an exit code. A declined
// confirmation is a clean exit.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, pipeline.ErrCancelled) {
		fmt.Println("Migration cancelled. Nothing was created.")
		return 0
	}
	if problems, ok := problemsOf(err); ok {
		fmt.Fprint(os.Stderr, tui.RenderProblems(problems))
		return 1
	}
	fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
	return 1
}

// problemsOf extracts an aggregated problem list from validation errors.
func problemsOf(err error) ([]string, bool) {
	var vErr *pipeline.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Problems, true
	}
	var boardErr *trello.SchemaError
	if errors.As(err, &boardErr) {
		return prefixed("board: ", boardErr.Problems), true
	}
	var mapErr *mapping.SchemaError
	if errors.As(err, &mapErr) {
		return prefixed("mapping: ", mapErr.Problems), true
	}
	return nil, false
}

func prefixed(prefix string, problems []string) []string {
	out := make([]string, len(problems))
	for i, p := range problems {
		out[i] = prefix + p
	}
	return out
}

// newLogger builds the console logger. LOG_LEVEL overrides the level.
func newLogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	if levelStr := strings.ToLower(os.Getenv("LOG_LEVEL")); levelStr != "" {
		if parsed, err := zapcore.ParseLevel(levelStr); err == nil {
			level = parsed
		}
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      true,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// loadConfig finds and loads the tool configuration.
func loadConfig() (*config.Config, error) {
	path := config.FindConfigPath(cfgFile)
	if cfgFile != "" && path == "" {
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("Loaded config", zap.String("path", path))
	}
	return cfg, nil
}
