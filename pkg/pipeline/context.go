package pipeline

import (
	"github.com/matzehuels/adviser/pkg/adviser"
	"github.com/matzehuels/adviser/pkg/errors"
	"github.com/matzehuels/adviser/pkg/python"
)

// BuilderContextOptions carries the run parameters visible to units.
type BuilderContextOptions struct {
	Graph        any             // Knowledge graph handle, opaque to the builder
	Project      *python.Project // Project being resolved (optional)
	LibraryUsage map[string]any  // Library usage gathered from sources (optional)
}

type includedUnit struct {
	unit   Unit
	params Parameters
}

// BuilderContext holds the units included so far, one ordered sequence per
// stage, together with the run mode they are selected for.
type BuilderContext struct {
	mode   adviser.RunMode
	opts   BuilderContextOptions
	stages [numStages][]includedUnit
	names  map[string]Stage
}

// NewBuilderContext creates an empty builder context. It fails with
// INVALID_CONFIGURATION when mode is not exactly one of the two run kinds.
func NewBuilderContext(mode adviser.RunMode, opts BuilderContextOptions) (*BuilderContext, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	return &BuilderContext{
		mode:  mode,
		opts:  opts,
		names: make(map[string]Stage),
	}, nil
}

// AddUnit appends u with its default configuration to the tail of its
// stage's sequence. A unit name can only be added once.
func (c *BuilderContext) AddUnit(u Unit) error {
	return c.add(u, DefaultConfiguration(u))
}

func (c *BuilderContext) add(u Unit, params Parameters) error {
	s := u.Stage()
	if !s.Valid() {
		return errors.New(errors.ErrCodeInvalidConfiguration, "unit %s has unknown stage %d", u.Name(), int(s))
	}
	if prev, ok := c.names[u.Name()]; ok {
		return errors.New(errors.ErrCodeInvalidConfiguration, "unit %s is already included as a %s", u.Name(), prev)
	}
	c.names[u.Name()] = s
	c.stages[s] = append(c.stages[s], includedUnit{unit: u, params: params})
	return nil
}

// IsIncluded reports whether a unit with the given name has been included.
func (c *BuilderContext) IsIncluded(name string) bool {
	_, ok := c.names[name]
	return ok
}

// IsAdviserPipeline reports whether the pipeline is built for an advisory run.
func (c *BuilderContext) IsAdviserPipeline() bool { return c.mode.IsAdviser() }

// IsDependencyMonkeyPipeline reports whether the pipeline is built for a
// dependency-monkey run.
func (c *BuilderContext) IsDependencyMonkeyPipeline() bool { return c.mode.IsDependencyMonkey() }

// Mode returns the run mode.
func (c *BuilderContext) Mode() adviser.RunMode { return c.mode }

// Project returns the project being resolved, if any.
func (c *BuilderContext) Project() *python.Project { return c.opts.Project }

// Graph returns the knowledge graph handle.
func (c *BuilderContext) Graph() any { return c.opts.Graph }

// LibraryUsage returns the library usage data.
func (c *BuilderContext) LibraryUsage() map[string]any { return c.opts.LibraryUsage }

// Len returns the number of included units.
func (c *BuilderContext) Len() int { return len(c.names) }

// Units returns the units included in stage s, in inclusion order.
func (c *BuilderContext) Units(s Stage) []Unit {
	if !s.Valid() {
		return nil
	}
	units := make([]Unit, len(c.stages[s]))
	for i, iu := range c.stages[s] {
		units[i] = iu.unit
	}
	return units
}

func (c *BuilderContext) Boots() []Unit   { return c.Units(StageBoot) }
func (c *BuilderContext) Sieves() []Unit  { return c.Units(StageSieve) }
func (c *BuilderContext) Steps() []Unit   { return c.Units(StageStep) }
func (c *BuilderContext) Strides() []Unit { return c.Units(StageStride) }
func (c *BuilderContext) Wraps() []Unit   { return c.Units(StageWrap) }

// View returns a read-only view of c.
func (c *BuilderContext) View() View { return view{c} }

// Configuration freezes the included units into a Configuration.
func (c *BuilderContext) Configuration() *Configuration {
	cfg := &Configuration{}
	for _, s := range Stages {
		entries := make([]UnitEntry, len(c.stages[s]))
		for i, iu := range c.stages[s] {
			entries[i] = UnitEntry{Name: iu.unit.Name(), Configuration: iu.params.Clone()}
		}
		cfg.stages[s] = entries
	}
	return cfg
}

// view hides the mutating methods of a BuilderContext from units.
type view struct {
	c *BuilderContext
}

func (v view) IsIncluded(name string) bool      { return v.c.IsIncluded(name) }
func (v view) IsAdviserPipeline() bool          { return v.c.IsAdviserPipeline() }
func (v view) IsDependencyMonkeyPipeline() bool { return v.c.IsDependencyMonkeyPipeline() }
func (v view) Mode() adviser.RunMode            { return v.c.Mode() }
func (v view) Project() *python.Project         { return v.c.Project() }
func (v view) Graph() any                       { return v.c.Graph() }
func (v view) LibraryUsage() map[string]any     { return v.c.LibraryUsage() }
