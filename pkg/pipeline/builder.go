package pipeline

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adviser/pkg/adviser"
	"github.com/matzehuels/adviser/pkg/errors"
	"github.com/matzehuels/adviser/pkg/observability"
	"github.com/matzehuels/adviser/pkg/python"
)

const (
	// DefaultMaxPasses is the default cap on passes over the catalog.
	DefaultMaxPasses = 10

	// MinPasses is the lowest accepted pass cap. Lower values are raised to it.
	MinPasses = 3
)

// Options configures a Builder.
type Options struct {
	Graph        any             // Knowledge graph handle passed to units
	Project      *python.Project // Project being resolved (optional)
	LibraryUsage map[string]any  // Library usage passed to units (optional)
	MaxPasses    int             // Pass cap (default: DefaultMaxPasses, min: MinPasses)
	Logger       *log.Logger     // Progress logger (default: discard)
}

// WithDefaults returns a copy of the options with defaults applied.
func (o Options) WithDefaults() Options {
	if o.MaxPasses <= 0 {
		o.MaxPasses = DefaultMaxPasses
	}
	if o.MaxPasses < MinPasses {
		o.MaxPasses = MinPasses
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Builder assembles pipeline configurations from a catalog of units.
// A Builder holds no per-build state and may be reused.
type Builder struct {
	catalog *Catalog
	opts    Options
}

// NewBuilder creates a builder over catalog.
func NewBuilder(catalog *Catalog, opts Options) *Builder {
	if catalog == nil {
		catalog = &Catalog{}
	}
	return &Builder{catalog: catalog, opts: opts.WithDefaults()}
}

// AdviserConfiguration builds the pipeline of an advisory run.
func (b *Builder) AdviserConfiguration(ctx context.Context, rt adviser.RecommendationType) (*Configuration, error) {
	return b.Build(ctx, adviser.Advise(rt))
}

// DependencyMonkeyConfiguration builds the pipeline of a dependency-monkey run.
func (b *Builder) DependencyMonkeyConfiguration(ctx context.Context, dt adviser.DecisionType) (*Configuration, error) {
	return b.Build(ctx, adviser.DependencyMonkey(dt))
}

type candidate struct {
	unit     Unit
	included bool
}

// Build runs the catalog to a fixed point for the given run mode.
//
// Passes visit stages in order and, within a stage, every candidate not yet
// included in catalog order. A candidate answering with a configuration is
// included at once, so later candidates of the same pass already see it. The
// build ends after a pass that includes nothing or once every candidate is
// included. If the pass cap is reached while candidates are still being
// included, the build fails with INVALID_CONFIGURATION.
//
// ctx is only handed to observability hooks; a build is never interrupted.
func (b *Builder) Build(ctx context.Context, mode adviser.RunMode) (cfg *Configuration, err error) {
	bc, err := NewBuilderContext(mode, BuilderContextOptions{
		Graph:        b.opts.Graph,
		Project:      b.opts.Project,
		LibraryUsage: b.opts.LibraryUsage,
	})
	if err != nil {
		return nil, err
	}

	logger := b.opts.Logger.With("mode", mode.String())
	hooks := observability.Builder()
	start := time.Now()
	passes := 0

	hooks.OnBuildStart(ctx, mode.Kind(), b.catalog.Len())
	defer func() {
		hooks.OnBuildComplete(ctx, passes, bc.Len(), time.Since(start), err)
	}()

	var arenas [numStages][]candidate
	for _, s := range Stages {
		for _, u := range b.catalog.stages[s] {
			arenas[s] = append(arenas[s], candidate{unit: u})
		}
	}

	v := bc.View()
	remaining := b.catalog.Len()
	for remaining > 0 {
		if passes == b.opts.MaxPasses {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration,
				"pipeline did not settle within %d passes (still pending: %s)",
				passes, strings.Join(pending(arenas), ", "))
		}
		passes++

		included := 0
		for _, s := range Stages {
			arena := arenas[s]
			for i := range arena {
				c := &arena[i]
				if c.included {
					continue
				}
				params, ok := c.unit.ShouldInclude(v)
				if !ok {
					continue
				}

				name := c.unit.Name()
				merged := Merge(params, DefaultConfiguration(c.unit))
				if err := merged.Validate(); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "unit %s", name)
				}
				if err := bc.add(c.unit, merged); err != nil {
					return nil, err
				}
				c.included = true
				included++
				remaining--

				hooks.OnUnitIncluded(ctx, s.String(), name, passes)
				logger.Debug("unit included", "stage", s, "unit", name, "pass", passes)
			}
		}

		hooks.OnPassComplete(ctx, passes, included)
		logger.Debug("pass complete", "pass", passes, "included", included, "remaining", remaining)
		if included == 0 {
			break
		}
	}

	logger.Info("pipeline built", "units", bc.Len(), "passes", passes, "elapsed", time.Since(start))
	return bc.Configuration(), nil
}

func pending(arenas [numStages][]candidate) []string {
	var names []string
	for _, arena := range arenas {
		for _, c := range arena {
			if !c.included {
				names = append(names, c.unit.Name())
			}
		}
	}
	return names
}
