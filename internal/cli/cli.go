// Package cli implements the adviser command-line interface.
//
// # Commands
//
//   - pipeline: build the pipeline configuration of a run from a unit catalog
//   - lock: register the packages of a Pipfile.lock in a run context
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried by [CLI] and handed to the builder and the run context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adviser/pkg/adviser"
	"github.com/matzehuels/adviser/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "adviser"

	// defaultRecommendation is used when neither run mode flag is given.
	defaultRecommendation = adviser.RecommendationLatest
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Adviser assembles resolution pipelines for Python applications",
		Long:         `Adviser builds the pipeline of units used by a dependency resolution run, either an advisory recommendation or a dependency-monkey exploration, and tracks the package versions a run resolves.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.pipelineCommand())
	root.AddCommand(c.lockCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Run Mode Flags
// =============================================================================

// modeFlags holds the two mutually exclusive run mode flags.
type modeFlags struct {
	recommendation string
	decision       string
}

func (f *modeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.recommendation, "recommendation-type", "r", "", "advisory run: stable, testing, latest (default)")
	cmd.Flags().StringVarP(&f.decision, "decision-type", "d", "", "dependency-monkey run: all, random")
}

// runMode validates the flags. With neither flag set, an advisory run with
// the default recommendation type is assumed.
func (f *modeFlags) runMode() (adviser.RunMode, error) {
	if f.recommendation == "" && f.decision == "" {
		return adviser.Advise(defaultRecommendation), nil
	}
	return adviser.ParseRunMode(f.recommendation, f.decision)
}

// =============================================================================
// Output
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
