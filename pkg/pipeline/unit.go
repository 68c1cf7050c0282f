package pipeline

import (
	"github.com/matzehuels/adviser/pkg/adviser"
	"github.com/matzehuels/adviser/pkg/errors"
	"github.com/matzehuels/adviser/pkg/python"
)

// Unit is a pluggable, self-selecting pipeline component.
type Unit interface {
	// Name identifies the unit implementation. It is the discriminant used by
	// [View.IsIncluded] and the name written to the built configuration, so it
	// must be unique within a catalog.
	Name() string

	// Stage returns the stage the unit belongs to.
	Stage() Stage

	// ShouldInclude decides whether the unit belongs to the pipeline being
	// built. It returns the unit's configuration (possibly empty) and true to
	// be included, or false to be asked again on the next pass. It must only
	// read from v.
	ShouldInclude(v View) (Parameters, bool)
}

// Defaulter is implemented by units that carry a default configuration.
// The mapping returned by ShouldInclude is merged over it.
type Defaulter interface {
	DefaultConfiguration() Parameters
}

// DefaultConfiguration returns a copy of u's default configuration, or an
// empty mapping when u does not implement [Defaulter].
func DefaultConfiguration(u Unit) Parameters {
	if d, ok := u.(Defaulter); ok {
		return d.DefaultConfiguration().Clone()
	}
	return Parameters{}
}

// View is the read-only state of a build, as seen by [Unit.ShouldInclude].
type View interface {
	// IsIncluded reports whether a unit with the given name has been included.
	IsIncluded(name string) bool

	IsAdviserPipeline() bool
	IsDependencyMonkeyPipeline() bool
	Mode() adviser.RunMode

	Project() *python.Project
	Graph() any
	LibraryUsage() map[string]any
}

// Catalog is an ordered, stage-partitioned collection of candidate units.
type Catalog struct {
	stages [numStages][]Unit
	names  map[string]Stage
}

// NewCatalog creates a catalog holding units in the given order.
func NewCatalog(units ...Unit) (*Catalog, error) {
	c := &Catalog{names: make(map[string]Stage)}
	for _, u := range units {
		if err := c.Register(u); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register appends u to the candidates of its stage. It fails with
// INVALID_CONFIGURATION for an empty or duplicate name or an unknown stage.
func (c *Catalog) Register(u Unit) error {
	if c.names == nil {
		c.names = make(map[string]Stage)
	}
	name := u.Name()
	if name == "" {
		return errors.New(errors.ErrCodeInvalidConfiguration, "unit name cannot be empty")
	}
	if !u.Stage().Valid() {
		return errors.New(errors.ErrCodeInvalidConfiguration, "unit %s has unknown stage %d", name, int(u.Stage()))
	}
	if s, ok := c.names[name]; ok {
		return errors.New(errors.ErrCodeInvalidConfiguration, "unit %s is already registered as a %s", name, s)
	}
	c.names[name] = u.Stage()
	c.stages[u.Stage()] = append(c.stages[u.Stage()], u)
	return nil
}

// MustRegister is like Register but panics on error.
// It is intended for compiled-in catalogs assembled at init time.
func (c *Catalog) MustRegister(units ...Unit) {
	for _, u := range units {
		if err := c.Register(u); err != nil {
			panic(err)
		}
	}
}

// Units returns the candidates of stage s in registration order.
func (c *Catalog) Units(s Stage) []Unit {
	if !s.Valid() {
		return nil
	}
	return append([]Unit(nil), c.stages[s]...)
}

// Len returns the number of registered units.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Names returns unit names in stage order, then registration order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, c.Len())
	for _, s := range Stages {
		for _, u := range c.stages[s] {
			names = append(names, u.Name())
		}
	}
	return names
}
