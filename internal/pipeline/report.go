package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"qsrescue/internal/model"
)

// WriteReport renders the run report as indented JSON
func WriteReport(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// PrintSummary writes the human-readable run summary to stdout
func PrintSummary(stats *model.RunStats, dryRun bool) {
	fmt.Println("============================================================")
	if dryRun {
		fmt.Printf("Dry run: %d messages would be published\n", stats.MessagesPublished)
	} else {
		fmt.Printf("Total messages published: %d\n", stats.MessagesPublished)
	}
	fmt.Printf("Files scanned: %d, candidates skipped: %d", stats.FilesScanned, stats.CandidatesSkipped)
	if stats.PublishFailures > 0 {
		fmt.Printf(", publish failures: %d", stats.PublishFailures)
	}
	fmt.Println()
	fmt.Println("============================================================")
}
