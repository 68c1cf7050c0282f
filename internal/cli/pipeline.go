package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/adviser/pkg/adviser"
	"github.com/matzehuels/adviser/pkg/buildinfo"
	"github.com/matzehuels/adviser/pkg/cache"
	"github.com/matzehuels/adviser/pkg/errors"
	"github.com/matzehuels/adviser/pkg/pipeline"
	"github.com/matzehuels/adviser/pkg/pipeline/units"
	"github.com/matzehuels/adviser/pkg/python"
	"github.com/matzehuels/adviser/pkg/render/nodelink"
)

// Output formats of the pipeline command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatDOT   = "dot"
	formatSVG   = "svg"
)

var pipelineFormats = []string{formatTable, formatJSON, formatYAML, formatDOT, formatSVG}

// pipelineOpts holds the command-line flags for the pipeline command.
type pipelineOpts struct {
	mode         modeFlags
	pipfile      string // Pipfile of the project being resolved
	libraryUsage string // JSON file with library usage data
	maxPasses    int    // pass cap of the builder
	format       string // output format
	output       string // output file path (stdout if empty)
	detailed     bool   // include configuration in diagram labels
	cacheDir     string // directory of the configuration cache (disabled if empty)
	cacheTTL     time.Duration
}

// pipelineCommand creates the pipeline command.
func (c *CLI) pipelineCommand() *cobra.Command {
	opts := pipelineOpts{format: formatTable, cacheTTL: defaultCacheTTL}

	cmd := &cobra.Command{
		Use:   "pipeline [catalog]",
		Short: "Build the pipeline configuration of a run",
		Long: `Build the pipeline configuration of a run from a unit catalog.

The catalog is a YAML or TOML file, or a directory of such files, listing
units and the conditions under which they select themselves. Units are
offered to the builder pass after pass until no more units join.

Select the run with --recommendation-type (advisory run) or
--decision-type (dependency-monkey run); an advisory run with the latest
recommendation type is built when neither is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(pipelineFormats, opts.format) {
				return errors.New(errors.ErrCodeInvalidInput,
					"unknown format %q (must be one of: %s)", opts.format, strings.Join(pipelineFormats, ", "))
			}
			return c.runPipeline(cmd.Context(), cmd, args[0], opts)
		},
	}

	opts.mode.register(cmd)
	cmd.Flags().StringVar(&opts.pipfile, "pipfile", "", "Pipfile of the project being resolved")
	cmd.Flags().StringVar(&opts.libraryUsage, "library-usage", "", "JSON file with library usage data")
	cmd.Flags().IntVar(&opts.maxPasses, "max-passes", pipeline.DefaultMaxPasses, "maximum passes over the catalog")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(pipelineFormats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show unit configuration in dot and svg output")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "reuse built configurations stored in this directory")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", opts.cacheTTL, "lifetime of cached configurations")

	return cmd
}

// runPipeline loads the catalog and run inputs, builds the configuration and
// writes it in the requested format.
func (c *CLI) runPipeline(ctx context.Context, cmd *cobra.Command, catalogPath string, opts pipelineOpts) error {
	mode, err := opts.mode.runMode()
	if err != nil {
		return err
	}

	defs, err := units.Load(catalogPath)
	if err != nil {
		return err
	}
	catalog, err := units.Catalog(defs)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded catalog", "path", catalogPath, "units", catalog.Len())

	var project *python.Project
	if opts.pipfile != "" {
		if project, err = python.LoadPipfile(opts.pipfile); err != nil {
			return err
		}
		c.Logger.Debug("loaded project", "path", opts.pipfile, "packages", len(project.Packages), "dev_packages", len(project.DevPackages))
	}

	usage, err := loadLibraryUsage(opts.libraryUsage)
	if err != nil {
		return err
	}

	store, err := openCache(opts.cacheDir)
	if err != nil {
		return err
	}
	defer store.Close()
	key, err := cache.Key("pipeline", buildinfo.Get().Version, defs, mode.String(), opts.maxPasses, project, usage)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	cfg, cached, err := c.cachedBuild(ctx, store, key, opts.cacheTTL, func() (*pipeline.Configuration, error) {
		b := pipeline.NewBuilder(catalog, pipeline.Options{
			Project:      project,
			LibraryUsage: usage,
			MaxPasses:    opts.maxPasses,
			Logger:       c.Logger,
		})
		return b.Build(ctx, mode)
	})
	if err != nil {
		return err
	}
	prog.done("Built pipeline", "mode", mode.String(), "units", cfg.Len(), "cached", cached)

	data, err := encodeConfiguration(ctx, cmd.ErrOrStderr(), cfg, opts)
	if err != nil {
		return err
	}
	return writeOutput(cmd, opts.output, data)
}

func encodeConfiguration(ctx context.Context, status io.Writer, cfg *pipeline.Configuration, opts pipelineOpts) ([]byte, error) {
	switch opts.format {
	case formatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatYAML:
		return yaml.Marshal(cfg)
	case formatDOT:
		return []byte(nodelink.ToDOT(cfg, nodelink.Options{Detailed: opts.detailed})), nil
	case formatSVG:
		spinner := newSpinner(ctx, status, "Rendering pipeline...")
		spinner.Start()
		svg, err := nodelink.RenderSVG(nodelink.ToDOT(cfg, nodelink.Options{Detailed: opts.detailed}))
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return nil, err
		}
		spinner.Stop()
		return svg, nil
	}
	if cfg.Len() == 0 {
		return []byte("no units selected\n"), nil
	}
	return []byte(configurationTable(cfg) + "\n"), nil
}

// loadLibraryUsage reads library usage data from a JSON file.
func loadLibraryUsage(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "library usage %s", path)
		}
		return nil, err
	}
	var usage map[string]any
	if err := json.Unmarshal(data, &usage); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode library usage %s", path)
	}
	return usage, nil
}

// writeOutput writes data to path, or to the command's stdout if path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	out, err := openOutput(path, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if path != "" {
		printSuccess(cmd.ErrOrStderr(), "Wrote %s", formatSize(len(data)))
		printFile(cmd.ErrOrStderr(), path)
	}
	return nil
}

func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d bytes", n)
	}
	return fmt.Sprintf("%.1f KiB", float64(n)/1024)
}

// modeName renders a run mode for status lines.
func modeName(m adviser.RunMode) string {
	if rt, ok := m.RecommendationType(); ok {
		return "advisory run (" + string(rt) + ")"
	}
	dt, _ := m.DecisionType()
	return "dependency-monkey run (" + string(dt) + ")"
}
