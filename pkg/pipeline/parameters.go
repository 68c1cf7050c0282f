package pipeline

import (
	"maps"
	"slices"

	"github.com/matzehuels/adviser/pkg/errors"
)

// Parameters is the configuration of a unit: a mapping from names to values.
//
// Values are restricted to nil, booleans, strings, integers, floats and flat
// sequences of those scalars, which is what survives a JSON, YAML or TOML
// round trip. Use [Parameters.Validate] to check a mapping.
type Parameters map[string]any

// Merge returns a new mapping holding defaults overridden by returned: keys
// present in returned win, keys present only in defaults are kept.
// The result is never nil.
func Merge(returned, defaults Parameters) Parameters {
	merged := make(Parameters, len(defaults)+len(returned))
	for k, v := range defaults {
		merged[k] = cloneValue(v)
	}
	for k, v := range returned {
		merged[k] = cloneValue(v)
	}
	return merged
}

// Clone returns a deep copy of p. Cloning nil yields an empty mapping.
func (p Parameters) Clone() Parameters {
	return Merge(p, nil)
}

// Keys returns the parameter names in sorted order.
func (p Parameters) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Validate checks that every value is of a supported kind.
func (p Parameters) Validate() error {
	for _, k := range p.Keys() {
		if !validValue(p[k], true) {
			return errors.New(errors.ErrCodeInvalidConfiguration,
				"parameter %q has unsupported value type %T", k, p[k])
		}
	}
	return nil
}

func validValue(v any, allowSequence bool) bool {
	switch s := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	case []string, []bool, []int, []int64, []float64:
		return allowSequence
	case []any:
		if !allowSequence {
			return false
		}
		for _, item := range s {
			if !validValue(item, false) {
				return false
			}
		}
		return true
	}
	return false
}

func cloneValue(v any) any {
	switch s := v.(type) {
	case []any:
		return slices.Clone(s)
	case []string:
		return slices.Clone(s)
	case []bool:
		return slices.Clone(s)
	case []int:
		return slices.Clone(s)
	case []int64:
		return slices.Clone(s)
	case []float64:
		return slices.Clone(s)
	}
	return v
}
