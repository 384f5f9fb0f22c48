// Package cli provides the recall command line interface built on cobra.
package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Command annotations that change how services are bootstrapped.
const (
	annotationNoBootstrap  = "recall/no-bootstrap"
	annotationSettingsOnly = "recall/settings-only"
)

// Flags are the persistent flags passed to the bootstrap function.
type Flags struct {
	ConfigDir string
	DataDir   string
	Ephemeral bool
	Verbose   bool

	// SettingsOnly asks for the settings service alone.
	SettingsOnly bool
}

// FileReader reads supported files into plain text.
type FileReader interface {
	Supports(path string) bool
	ReadFile(path string) (string, error)
}

// Runtime is the set of services a command may use.
type Runtime struct {
	Ingest   driving.IngestService
	Query    driving.QueryService
	Items    driving.ItemService
	Admin    driving.AdminService
	Settings driving.SettingsService

	Files   FileReader
	Metrics http.Handler

	// Check pings the AI providers. Optional.
	Check func(ctx context.Context) error

	// Listen is the configured HTTP listen address.
	Listen string

	// Warnings are printed before a long-running command starts.
	Warnings []string

	// Close releases the runtime. Optional.
	Close func() error
}

// BootstrapFunc builds a Runtime from the persistent flags.
type BootstrapFunc func(Flags) (*Runtime, error)

var (
	bootstrap BootstrapFunc
	current   *Runtime
	flags     Flags

	ingestService   driving.IngestService
	queryService    driving.QueryService
	itemService     driving.ItemService
	adminService    driving.AdminService
	settingsService driving.SettingsService
	fileReader      FileReader
	metricsHandler  http.Handler
	checkProviders  func(ctx context.Context) error
	listenAddr      string
	warnings        []string
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Ask questions of your own notes and web pages",
	Long: `Recall stores notes, files and web pages, and answers questions about them.

Content is split into overlapping chunks and embedded. A question is embedded
the same way, the most similar chunks are retrieved, and an LLM answers from
those chunks alone.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "print debug output")
	pf.StringVar(&flags.ConfigDir, "config-dir", "", "configuration directory (default ~/.recall)")
	pf.StringVar(&flags.DataDir, "data-dir", "", "database directory (default <config-dir>/data)")
	pf.BoolVar(&flags.Ephemeral, "ephemeral", false, "keep items in memory only")
}

// SetBootstrap sets the function that builds services before each command.
// Without one, commands use whatever services are already set.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeRuntime()

	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flags.Verbose)

	if bootstrap == nil || hasAnnotation(cmd, annotationNoBootstrap) {
		return nil
	}

	f := flags
	f.SettingsOnly = hasAnnotation(cmd, annotationSettingsOnly)

	rt, err := bootstrap(f)
	if err != nil {
		return err
	}
	useRuntime(rt)
	return nil
}

// hasAnnotation reports whether cmd or any parent carries the annotation.
func hasAnnotation(cmd *cobra.Command, name string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[name] == "true" {
			return true
		}
	}
	return false
}

func useRuntime(rt *Runtime) {
	current = rt
	ingestService = rt.Ingest
	queryService = rt.Query
	itemService = rt.Items
	adminService = rt.Admin
	settingsService = rt.Settings
	fileReader = rt.Files
	metricsHandler = rt.Metrics
	checkProviders = rt.Check
	listenAddr = rt.Listen
	warnings = rt.Warnings
}

func closeRuntime() {
	if current == nil || current.Close == nil {
		return
	}
	if err := current.Close(); err != nil {
		logger.Warn("closing: %v", err)
	}
	current = nil
}

var (
	errIngestNotConfigured   = errors.New("ingest service not configured")
	errQueryNotConfigured    = errors.New("query service not configured")
	errItemsNotConfigured    = errors.New("item service not configured")
	errAdminNotConfigured    = errors.New("admin service not configured")
	errSettingsNotConfigured = errors.New("settings service not configured")
)

// printWarnings writes startup warnings to the command's error stream.
func printWarnings(cmd *cobra.Command) {
	for _, w := range warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
}
