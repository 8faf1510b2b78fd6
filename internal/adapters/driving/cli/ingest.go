package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <location>",
	Short: "Index documents from a file or directory",
	Long: `Loads every supported document (.txt, .md, .html) under location, splits it
into segments, embeds them and adds them to the index.

Ingestion always appends: running it twice on the same files indexes them twice.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}

	report, err := ingestService.Ingest(cmd.Context(), args[0])
	cmd.Println(report.Message)

	switch {
	case err == nil, errors.Is(err, domain.ErrEmptyCorpus):
		if report.RunID != "" {
			cmd.Printf("Run: %s\n", report.RunID)
		}
		return nil
	default:
		return fmt.Errorf("ingestion failed: %w", err)
	}
}
