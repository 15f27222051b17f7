// Package report renders run results for people: an informational log
// stream while scoring and a summary table at the end.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/RishiKendai/aegis-origin/internal/plagiarism"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
)

// Percent formats a similarity in [0, 1] as a percentage with two decimals.
func Percent(similarity float64) string {
	return fmt.Sprintf("%.2f%%", similarity*100)
}

// LogComparison logs the similarity of a single pair.
func LogComparison(c plagiarism.Comparison) {
	log.Debug().
		Str("target", c.TargetPath).
		Str("reference", c.ReferencePath).
		Str("similarity", fmt.Sprintf("%.2f", c.Similarity)).
		Msg("Pair scored")
}

// LogFileResult logs the best similarity found for one target file.
func LogFileResult(r plagiarism.FileResult) {
	log.Info().
		Str("target", r.TargetPath).
		Str("maxSimilarity", Percent(r.MaxSimilarity)).
		Str("bestMatch", r.BestMatch).
		Msg("Max similarity")
}

// LogSummary logs the run-wide average and timings.
func LogSummary(checkID string, summary *plagiarism.RunSummary, total float64) {
	log.Info().
		Str("checkId", checkID).
		Str("averageSimilarity", Percent(summary.AverageSimilarity)).
		Int("totalFiles", summary.TotalFiles).
		Int("referenceFiles", summary.ReferenceFiles).
		Str("scoringElapsed", fmt.Sprintf("%.2fs", summary.ElapsedSeconds())).
		Str("totalElapsed", fmt.Sprintf("%.2fs", total)).
		Msg("Average similarity")
}

// RenderTable renders the per-file maxima and the average. Paths are shown
// relative to targetRoot when possible.
func RenderTable(summary *plagiarism.RunSummary, targetRoot string) string {
	tw := table.NewWriter()
	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"Target file", "Max similarity", "Best match"})

	for _, file := range summary.Files {
		tw.AppendRow(table.Row{relative(targetRoot, file.TargetPath), Percent(file.MaxSimilarity), file.BestMatch})
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d files / %d references", summary.TotalFiles, summary.ReferenceFiles),
		Percent(summary.AverageSimilarity),
		fmt.Sprintf("scored in %.2fs", summary.ElapsedSeconds()),
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignLeft},
	})

	return tw.Render()
}

func relative(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
