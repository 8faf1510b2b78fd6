// Package cli provides the groundrag command line interface.
// It is a driving adapter: every command delegates to the driving ports.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundrag/internal/core/ports/driving"
	"github.com/custodia-labs/groundrag/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// annotationSettingsOnly marks commands that only need the settings service.
const annotationSettingsOnly = "groundrag/settings-only"

var (
	verbose   bool
	configDir string
)

var (
	ingestService   driving.IngestService
	askService      driving.AskService
	runService      driving.RunService
	settingsService driving.SettingsService

	bootstrap BootstrapFunc
	closeFn   func() error
)

// Services holds the driving ports used by the commands.
type Services struct {
	Ingest   driving.IngestService
	Ask      driving.AskService
	Runs     driving.RunService
	Settings driving.SettingsService

	// Close releases everything the services hold. Optional.
	Close func() error
}

// BootstrapOptions tells the bootstrap what a command needs.
type BootstrapOptions struct {
	// ConfigDir overrides ~/.groundrag.
	ConfigDir string

	// SettingsOnly skips building the AI services and the index.
	SettingsOnly bool
}

// BootstrapFunc builds the services once the flags are parsed.
type BootstrapFunc func(ctx context.Context, opts BootstrapOptions) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "groundrag",
	Short: "Answer questions strictly from your own documents",
	Long: `groundrag indexes local documents and answers questions using only what
those documents say. When nothing relevant is found it refuses instead of guessing.

Start with:
  groundrag ingest ./docs
  groundrag ask "O que é teste de software?"`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline diagnostics")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.groundrag)")
}

// SetServices installs the services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	ingestService = s.Ingest
	askService = s.Ask
	runService = s.Runs
	settingsService = s.Settings
	closeFn = s.Close
}

// SetBootstrap sets the function that builds the services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeFn != nil {
		if cerr := closeFn(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
		closeFn = nil
	}
	return err
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd == versionCmd {
		return nil
	}

	opts := BootstrapOptions{
		ConfigDir:    configDir,
		SettingsOnly: settingsOnly(cmd),
	}
	services, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("starting groundrag: %w", err)
	}
	SetServices(services)
	return nil
}

// settingsOnly reports whether cmd or one of its parents is marked settings-only.
func settingsOnly(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationSettingsOnly]; ok {
			return true
		}
	}
	return false
}

var (
	errIngestNotConfigured   = errors.New("ingest service not configured")
	errAskNotConfigured      = errors.New("ask service not configured")
	errRunsNotConfigured     = errors.New("run service not configured")
	errSettingsNotConfigured = errors.New("settings service not configured")
)
