package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundrag/internal/core/domain"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent ingestion runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs (0 = all)")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "output runs as JSON")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if runService == nil {
		return errRunsNotConfigured
	}

	runs, err := runService.List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if runsJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal runs: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(runs) == 0 {
		cmd.Println("No ingestion runs yet.")
		return nil
	}

	for i := range runs {
		printRun(cmd, &runs[i])
	}
	return nil
}

func printRun(cmd *cobra.Command, run *domain.IngestRun) {
	cmd.Printf("%s  %-9s %s\n", run.StartedAt.Local().Format(time.DateTime), run.Status, run.Location)
	cmd.Printf("    id: %s  documents: %d  segments: %d  took: %s\n",
		run.ID, run.Documents, run.Segments, run.Duration().Round(time.Millisecond))
	if run.Error != "" {
		cmd.Printf("    error: %s\n", run.Error)
	}
}
