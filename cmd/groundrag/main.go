// Command groundrag answers questions strictly from a local document corpus.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/groundrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/groundrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/groundrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/groundrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/groundrag/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/groundrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/groundrag/internal/connectors/filesystem"
	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
	"github.com/custodia-labs/groundrag/internal/core/services"
	"github.com/custodia-labs/groundrag/internal/logger"
	"github.com/custodia-labs/groundrag/internal/normalisers"
	"github.com/custodia-labs/groundrag/internal/postprocessors"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the adapters into the services for one command.
func bootstrap(ctx context.Context, opts cli.BootstrapOptions) (*cli.Services, error) {
	configDir, err := resolveConfigDir(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	rulesPath := configStore.GetString("rules.path")
	if rulesPath == "" {
		rulesPath = filepath.Join(configDir, "rules.yaml")
	}
	ruleStore, err := file.NewRuleStore(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("opening rules: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ruleStore)
	if opts.SettingsOnly {
		return &cli.Services{Settings: settingsService}, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settings.RAG.Validate(); err != nil {
		return nil, err
	}

	e, err := newEngine(ctx, configDir, settings)
	if err != nil {
		return nil, err
	}
	e.services.Settings = settingsService
	return e.services, nil
}

// engine owns every long-lived resource built for a command.
type engine struct {
	services *cli.Services
	closers  []func() error
}

func (e *engine) close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	return errors.Join(errs...)
}

func newEngine(ctx context.Context, configDir string, settings *domain.AppSettings) (*engine, error) {
	e := &engine{}
	built := false
	defer func() {
		if !built {
			e.close() //nolint:errcheck // the construction error is reported instead
		}
	}()

	aiServices, err := ai.NewServices(ctx, settings)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, func() error { aiServices.Close(); return nil })

	// The size comes from the restored records or the first embedded batch;
	// providers cannot know it for every model they serve.
	index := flat.New(0)
	e.closers = append(e.closers, index.Close)

	var (
		records driven.RecordStore
		runs    driven.RunStore = memory.NewRunStore()
	)
	if settings.Persist {
		store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		e.closers = append(e.closers, store.Close)
		records = store.RecordStore()
		runs = store.RunStore()

		if err := rehydrate(ctx, records, index); err != nil {
			return nil, err
		}
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := postprocessors.BuildPipeline(registry, domain.PipelineConfigFor(settings.RAG))
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}

	loader := filesystem.NewLoader(normalisers.NewDefaultRegistry())

	ingest := services.NewIngestService(loader, pipeline, aiServices.Embedding, index)
	ingest.SetBatchSize(settings.IngestBatchSize)
	ingest.SetRunStore(runs)
	if records != nil {
		ingest.SetRecordStore(records)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	retriever := services.NewRetriever(
		services.NewFilterCompiler(settings.RAG.FilterRules),
		aiServices.Embedding,
		index,
	)
	answers := services.NewAnswerService(
		retriever,
		aiServices.Completion,
		memory.NewConversationStore(settings.RAG.MemoryWindowSize),
		settings.RAG,
	)
	answers.SetPromptStore(prompts)

	e.services = &cli.Services{
		Ingest: ingest,
		Ask:    answers,
		Runs:   services.NewRunService(runs),
		Close:  e.close,
	}
	built = true
	return e, nil
}

// rehydrate loads the persisted records into the in-memory index.
func rehydrate(ctx context.Context, records driven.RecordStore, index driven.VectorIndex) error {
	stored, err := records.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	if len(stored) == 0 {
		return nil
	}
	if err := index.Restore(ctx, stored); err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			return fmt.Errorf("%w: the stored index was built with another embedding model; "+
				"remove the data directory or switch the model back", err)
		}
		return fmt.Errorf("restoring index: %w", err)
	}
	logger.Debug("Restored %d records", len(stored))
	return nil
}

func resolveConfigDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, file.DefaultDirName), nil
}
