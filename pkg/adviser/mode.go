package adviser

import (
	"fmt"

	"github.com/matzehuels/adviser/pkg/errors"
)

// RecommendationType selects the flavour of an advisory run.
type RecommendationType string

// Recommendation types.
const (
	RecommendationStable  RecommendationType = "stable"
	RecommendationTesting RecommendationType = "testing"
	RecommendationLatest  RecommendationType = "latest"
)

// DecisionType selects how a dependency-monkey run walks the stack space.
type DecisionType string

// Decision types.
const (
	DecisionAll    DecisionType = "all"
	DecisionRandom DecisionType = "random"
)

// ParseRecommendationType parses a recommendation type name.
func ParseRecommendationType(s string) (RecommendationType, error) {
	switch rt := RecommendationType(s); rt {
	case RecommendationStable, RecommendationTesting, RecommendationLatest:
		return rt, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfiguration,
		"unknown recommendation type %q (must be one of: stable, testing, latest)", s)
}

// ParseDecisionType parses a decision type name.
func ParseDecisionType(s string) (DecisionType, error) {
	switch dt := DecisionType(s); dt {
	case DecisionAll, DecisionRandom:
		return dt, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfiguration,
		"unknown decision type %q (must be one of: all, random)", s)
}

// RunMode is either an advisory run or a dependency-monkey run, never both.
// The zero value is neither and is rejected wherever a mode is required.
type RunMode struct {
	recommendation RecommendationType
	decision       DecisionType
}

// Advise returns the run mode of an advisory run.
func Advise(rt RecommendationType) RunMode {
	return RunMode{recommendation: rt}
}

// DependencyMonkey returns the run mode of a dependency-monkey run.
func DependencyMonkey(dt DecisionType) RunMode {
	return RunMode{decision: dt}
}

// NewRunMode builds a run mode from two optional inputs, where the empty
// string means "not set". Exactly one must be set.
func NewRunMode(rt RecommendationType, dt DecisionType) (RunMode, error) {
	m := RunMode{recommendation: rt, decision: dt}
	if err := m.Validate(); err != nil {
		return RunMode{}, err
	}
	return m, nil
}

// ParseRunMode is [NewRunMode] for raw strings, additionally checking that
// the populated value is a known type.
func ParseRunMode(recommendation, decision string) (RunMode, error) {
	switch {
	case recommendation != "" && decision != "":
		return RunMode{}, errBothModes(recommendation, decision)
	case recommendation != "":
		rt, err := ParseRecommendationType(recommendation)
		if err != nil {
			return RunMode{}, err
		}
		return Advise(rt), nil
	case decision != "":
		dt, err := ParseDecisionType(decision)
		if err != nil {
			return RunMode{}, err
		}
		return DependencyMonkey(dt), nil
	}
	return RunMode{}, errNoMode()
}

// Validate reports an INVALID_CONFIGURATION error unless exactly one of the
// recommendation and decision types is set.
func (m RunMode) Validate() error {
	switch {
	case m.recommendation == "" && m.decision == "":
		return errNoMode()
	case m.recommendation != "" && m.decision != "":
		return errBothModes(string(m.recommendation), string(m.decision))
	}
	return nil
}

// IsAdviser reports whether this is an advisory run.
func (m RunMode) IsAdviser() bool { return m.recommendation != "" && m.decision == "" }

// IsDependencyMonkey reports whether this is a dependency-monkey run.
func (m RunMode) IsDependencyMonkey() bool { return m.decision != "" && m.recommendation == "" }

// RecommendationType returns the recommendation type of an advisory run.
func (m RunMode) RecommendationType() (RecommendationType, bool) {
	return m.recommendation, m.IsAdviser()
}

// DecisionType returns the decision type of a dependency-monkey run.
func (m RunMode) DecisionType() (DecisionType, bool) {
	return m.decision, m.IsDependencyMonkey()
}

// Kind returns "adviser", "dependency_monkey", or "" for an invalid mode.
func (m RunMode) Kind() string {
	switch {
	case m.IsAdviser():
		return "adviser"
	case m.IsDependencyMonkey():
		return "dependency_monkey"
	}
	return ""
}

// String renders the mode for logs, e.g. "adviser(latest)".
func (m RunMode) String() string {
	switch {
	case m.IsAdviser():
		return fmt.Sprintf("adviser(%s)", m.recommendation)
	case m.IsDependencyMonkey():
		return fmt.Sprintf("dependency_monkey(%s)", m.decision)
	}
	return "invalid"
}

func errNoMode() error {
	return errors.New(errors.ErrCodeInvalidConfiguration,
		"exactly one of recommendation type or decision type has to be provided")
}

func errBothModes(rt, dt string) error {
	return errors.New(errors.ErrCodeInvalidConfiguration,
		"recommendation type %q and decision type %q cannot be set at the same time", rt, dt)
}
