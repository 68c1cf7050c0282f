// Package units provides declarative pipeline units loaded from catalog files.
//
// A catalog file lists units and the conditions under which each selects
// itself. YAML and TOML are supported:
//
//	units:
//	  - name: CutoffSieve
//	    stage: sieve
//	    configuration:
//	      date: "2015-09-15"
//	    include:
//	      mode: adviser
//	      recommendation_types: [stable, testing]
//	      requires: [PinnedBoot]
//	      configuration:
//	        strict: true
//
// A rule is included once all of its conditions hold. Its include
// configuration is merged over its default configuration by the builder.
package units

import (
	"slices"
	"strings"

	"github.com/matzehuels/adviser/pkg/adviser"
	"github.com/matzehuels/adviser/pkg/errors"
	"github.com/matzehuels/adviser/pkg/pipeline"
)

// Run modes accepted by Condition.Mode.
const (
	ModeAny              = "any"
	ModeAdviser          = "adviser"
	ModeDependencyMonkey = "dependency_monkey"
)

// Definition describes one declarative unit.
type Definition struct {
	Name          string              `yaml:"name" toml:"name"`
	Stage         string              `yaml:"stage" toml:"stage"`
	Description   string              `yaml:"description,omitempty" toml:"description,omitempty"`
	Disabled      bool                `yaml:"disabled,omitempty" toml:"disabled,omitempty"`
	Configuration pipeline.Parameters `yaml:"configuration,omitempty" toml:"configuration,omitempty"`
	Include       Condition           `yaml:"include,omitempty" toml:"include,omitempty"`
}

// Condition lists what must hold for a unit to select itself.
// Empty fields impose no constraint.
type Condition struct {
	Mode                string              `yaml:"mode,omitempty" toml:"mode,omitempty"`
	RecommendationTypes []string            `yaml:"recommendation_types,omitempty" toml:"recommendation_types,omitempty"`
	DecisionTypes       []string            `yaml:"decision_types,omitempty" toml:"decision_types,omitempty"`
	Requires            []string            `yaml:"requires,omitempty" toml:"requires,omitempty"`
	Conflicts           []string            `yaml:"conflicts,omitempty" toml:"conflicts,omitempty"`
	Packages            []string            `yaml:"packages,omitempty" toml:"packages,omitempty"`
	Configuration       pipeline.Parameters `yaml:"configuration,omitempty" toml:"configuration,omitempty"`
}

// Normalized returns a trimmed copy of the definition.
func (def Definition) Normalized() Definition {
	return Definition{
		Name:          strings.TrimSpace(def.Name),
		Stage:         strings.ToLower(strings.TrimSpace(def.Stage)),
		Description:   strings.TrimSpace(def.Description),
		Disabled:      def.Disabled,
		Configuration: def.Configuration.Clone(),
		Include:       def.Include.normalized(),
	}
}

func (c Condition) normalized() Condition {
	mode := strings.ToLower(strings.TrimSpace(c.Mode))
	if mode == "" {
		mode = ModeAny
	}
	return Condition{
		Mode:                mode,
		RecommendationTypes: trimAll(c.RecommendationTypes),
		DecisionTypes:       trimAll(c.DecisionTypes),
		Requires:            trimAll(c.Requires),
		Conflicts:           trimAll(c.Conflicts),
		Packages:            trimAll(c.Packages),
		Configuration:       c.Configuration.Clone(),
	}
}

// Validate checks that the definition is well-formed.
func (def Definition) Validate() error {
	d := def.Normalized()
	if d.Name == "" {
		return errors.New(errors.ErrCodeInvalidConfiguration, "unit name is required")
	}
	if _, err := pipeline.ParseStage(d.Stage); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "unit %s", d.Name)
	}
	if err := d.Configuration.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "unit %s: configuration", d.Name)
	}
	if err := d.Include.validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "unit %s: include", d.Name)
	}
	if slices.Contains(d.Include.Requires, d.Name) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "unit %s requires itself", d.Name)
	}
	return nil
}

func (c Condition) validate() error {
	switch c.Mode {
	case ModeAny, ModeAdviser, ModeDependencyMonkey:
	default:
		return errors.New(errors.ErrCodeInvalidConfiguration,
			"unknown mode %q (must be one of: adviser, dependency_monkey, any)", c.Mode)
	}
	if len(c.RecommendationTypes) > 0 && c.Mode == ModeDependencyMonkey {
		return errors.New(errors.ErrCodeInvalidConfiguration, "recommendation_types require an adviser mode")
	}
	if len(c.DecisionTypes) > 0 && c.Mode == ModeAdviser {
		return errors.New(errors.ErrCodeInvalidConfiguration, "decision_types require a dependency_monkey mode")
	}
	for _, rt := range c.RecommendationTypes {
		if _, err := adviser.ParseRecommendationType(rt); err != nil {
			return err
		}
	}
	for _, dt := range c.DecisionTypes {
		if _, err := adviser.ParseDecisionType(dt); err != nil {
			return err
		}
	}
	for _, name := range c.Requires {
		if slices.Contains(c.Conflicts, name) {
			return errors.New(errors.ErrCodeInvalidConfiguration, "unit %s is both required and conflicting", name)
		}
	}
	return c.Configuration.Validate()
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
