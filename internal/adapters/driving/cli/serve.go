package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundrag/internal/adapters/driving/http"
	"github.com/custodia-labs/groundrag/internal/connectors/filesystem"
	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driving"
	"github.com/custodia-labs/groundrag/internal/logger"
)

var (
	serveAddr  string
	serveWatch string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the ask and ingest operations over HTTP.

Endpoints:
  POST /api/ask           {"question": "...", "session": "..."}
  POST /api/ingest        {"location": "..."}
  GET  /api/runs?limit=N
  GET  /healthz
  POST /api/consultar     {"pergunta": "..."}
  GET  /rag/treinamento?path=...

With --watch, files created or changed under the directory are ingested once
they stop changing.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "listen address")
	serveCmd.Flags().StringVarP(&serveWatch, "watch", "w", "", "directory to watch and ingest on change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	server, err := http.NewServer(&http.Ports{
		Ask:    askService,
		Ingest: ingestService,
		Runs:   runService,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if serveWatch != "" {
		watcher := filesystem.NewWatcher(serveWatch)
		defer watcher.Close()

		paths, err := watcher.Watch(ctx)
		if err != nil {
			return fmt.Errorf("watching %s: %w", serveWatch, err)
		}
		go ingestChanges(ctx, ingestService, paths)
		cmd.Printf("Watching %s for new documents\n", serveWatch)
	}

	cmd.Printf("HTTP API listening on %s\n", serveAddr)
	return server.Run(ctx, serveAddr)
}

// ingestChanges ingests every path received until the channel closes.
func ingestChanges(ctx context.Context, ingest driving.IngestService, paths <-chan string) {
	for path := range paths {
		report, err := ingest.Ingest(ctx, path)
		switch {
		case ctx.Err() != nil:
			return
		case err != nil && !errors.Is(err, domain.ErrEmptyCorpus):
			logger.Warn("watch: %s", report.Message)
		default:
			logger.Info("watch: %s: %s", path, report.Message)
		}
	}
}
