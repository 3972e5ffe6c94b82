// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-10
// Last Modified: 2026-10-15

package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/similigh/trello2gh/internal/core/pipeline"
)

// JSONReport represents the JSON report structure
type JSONReport struct {
	MigratedAt time.Time `json:"migrated_at"`
	Board      string    `json:"board"`
	Repository string    `json:"repository"`
	*pipeline.Result
}

// reportFormat infers the report format from the file extension.
func reportFormat(path, format string) string {
	if format != "" {
		return format
	}
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return "csv"
	}
	return "json"
}

// writeReport writes the migration result to path.
func writeReport(path, format string, pCtx *pipeline.Context) error {
	var data []byte
	var err error

	switch reportFormat(path, format) {
	case "csv":
		data, err = formatCSV(pCtx.Result)
	case "json":
		data, err = formatJSON(pCtx)
	default:
		return fmt.Errorf("unsupported format: %s (use json or csv)", format)
	}

	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	fmt.Printf("✓ Report written to %s\n", path)
	return nil
}

// formatJSON formats the result as JSON
func formatJSON(pCtx *pipeline.Context) ([]byte, error) {
	report := JSONReport{
		MigratedAt: time.Now().UTC(),
		Board:      pCtx.Board.Name,
		Repository: pCtx.Target.String(),
		Result:     pCtx.Result,
	}
	return json.MarshalIndent(report, "", "  ")
}

// formatCSV formats created issues as CSV, one row per card
func formatCSV(result *pipeline.Result) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	header := []string{
		"card_id",
		"card_name",
		"issue_number",
		"issue_url",
		"comments",
		"project_item_id",
		"status",
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, issue := range result.Issues {
		row := []string{
			issue.CardID,
			issue.CardName,
			strconv.Itoa(issue.Number),
			issue.URL,
			strconv.Itoa(issue.Comments),
			issue.ProjectItemID,
			issue.Status,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
