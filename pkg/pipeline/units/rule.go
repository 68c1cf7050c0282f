package units

import (
	"slices"

	"github.com/matzehuels/adviser/pkg/adviser"
	"github.com/matzehuels/adviser/pkg/pipeline"
)

// Rule is a pipeline unit driven by a Definition.
type Rule struct {
	def   Definition
	stage pipeline.Stage
}

// NewRule validates def and returns the unit it describes.
func NewRule(def Definition) (*Rule, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	def = def.Normalized()
	stage, _ := pipeline.ParseStage(def.Stage)
	return &Rule{def: def, stage: stage}, nil
}

func (r *Rule) Name() string           { return r.def.Name }
func (r *Rule) Stage() pipeline.Stage  { return r.stage }
func (r *Rule) Definition() Definition { return r.def.Normalized() }
func (r *Rule) Description() string    { return r.def.Description }

// DefaultConfiguration returns the rule's top-level configuration.
func (r *Rule) DefaultConfiguration() pipeline.Parameters {
	return r.def.Configuration.Clone()
}

// ShouldInclude selects the rule when every condition of its include block
// holds for v.
func (r *Rule) ShouldInclude(v pipeline.View) (pipeline.Parameters, bool) {
	if r.def.Disabled {
		return nil, false
	}
	c := r.def.Include
	if !matchMode(c, v.Mode()) {
		return nil, false
	}
	for _, name := range c.Requires {
		if !v.IsIncluded(name) {
			return nil, false
		}
	}
	for _, name := range c.Conflicts {
		if v.IsIncluded(name) {
			return nil, false
		}
	}
	if len(c.Packages) > 0 {
		project := v.Project()
		if project == nil || !slices.ContainsFunc(c.Packages, project.HasPackage) {
			return nil, false
		}
	}
	return c.Configuration.Clone(), true
}

func matchMode(c Condition, mode adviser.RunMode) bool {
	switch c.Mode {
	case ModeAdviser:
		if !mode.IsAdviser() {
			return false
		}
	case ModeDependencyMonkey:
		if !mode.IsDependencyMonkey() {
			return false
		}
	}
	if len(c.RecommendationTypes) > 0 {
		rt, ok := mode.RecommendationType()
		if !ok || !slices.Contains(c.RecommendationTypes, string(rt)) {
			return false
		}
	}
	if len(c.DecisionTypes) > 0 {
		dt, ok := mode.DecisionType()
		if !ok || !slices.Contains(c.DecisionTypes, string(dt)) {
			return false
		}
	}
	return true
}
