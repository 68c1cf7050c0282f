package pipeline

import (
	"github.com/matzehuels/adviser/pkg/errors"
)

// Stage is the role a unit plays in the pipeline.
type Stage int

// Stages in execution order.
const (
	StageBoot Stage = iota
	StageSieve
	StageStep
	StageStride
	StageWrap

	numStages = iota
)

// Stages lists all stages in execution order.
var Stages = [numStages]Stage{StageBoot, StageSieve, StageStep, StageStride, StageWrap}

var stageNames = [numStages]string{"boot", "sieve", "step", "stride", "wrap"}

// String returns the stage name (e.g., "sieve").
func (s Stage) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return stageNames[s]
}

// Key returns the plural form used as a serialization key (e.g., "sieves").
func (s Stage) Key() string {
	return s.String() + "s"
}

// Valid reports whether s is one of the five stages.
func (s Stage) Valid() bool {
	return s >= StageBoot && s <= StageWrap
}

// ParseStage parses a stage name. Both singular and plural forms are accepted.
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if name == s.String() || name == s.Key() {
			return s, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfiguration,
		"unknown stage %q (must be one of: boot, sieve, step, stride, wrap)", name)
}
