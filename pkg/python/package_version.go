package python

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/matzehuels/adviser/pkg/errors"
)

const lockedOperator = "=="

// PackageVersion is a package in the application stack, as found in a
// Pipfile or Pipfile.lock entry.
type PackageVersion struct {
	Name    string   // Package name
	Version string   // Version specifier (e.g., "==1.0.0", ">=2.0", "*")
	Index   *Source  // Package index the package comes from (optional)
	Develop bool     // Whether this is a development dependency
	Markers string   // Environment marker predicate (e.g., "python_version >= '3.6'")
	Extras  []string // Extra features requested (e.g., "postgresql")
	Hashes  []string // Artifact hashes, populated for locked packages
}

// IsLocked reports whether the package is pinned to a specific version.
func (p *PackageVersion) IsLocked() bool {
	return strings.HasPrefix(p.Version, lockedOperator)
}

// LockedVersion returns the pinned version without the "==" operator.
func (p *PackageVersion) LockedVersion() (string, error) {
	if !p.IsLocked() {
		return "", errors.New(errors.ErrCodeInternal,
			"requested locked version for %s but package has no locked version %s", p.Name, p.Version)
	}
	return p.Version[len(lockedOperator):], nil
}

// NegateVersion turns a locked "==X" specifier into "!=X".
func (p *PackageVersion) NegateVersion() error {
	if !p.IsLocked() {
		return errors.New(errors.ErrCodeInternal,
			"negating version on non-locked package %s with version %s is not supported", p.Name, p.Version)
	}
	p.Version = "!" + p.Version[1:]
	return nil
}

// Duplicate returns a copy safe to modify during resolution.
// The index is shared; slices are copied.
func (p *PackageVersion) Duplicate() *PackageVersion {
	return &PackageVersion{
		Name:    p.Name,
		Version: p.Version,
		Index:   p.Index,
		Develop: p.Develop,
		Markers: p.Markers,
		Extras:  slices.Clone(p.Extras),
		Hashes:  slices.Clone(p.Hashes),
	}
}

// ToTuple returns the registry identity of the package version. The version
// component is the specifier with a leading "==" stripped; the source
// component is empty when no index is assigned.
func (p *PackageVersion) ToTuple() PackageTuple {
	t := PackageTuple{
		Name:    p.Name,
		Version: strings.TrimPrefix(p.Version, lockedOperator),
	}
	if p.Index != nil {
		t.SourceURL = p.Index.URL
	}
	return t
}

var leadingVersionRE = regexp.MustCompile(`^\d+(\.\d+){0,2}`)

// SemanticVersion returns the locked version in canonical semver form
// (e.g., "v1.0.0"). Versions that are not valid semver are approximated by
// their leading numeric components, so "2.0.0.post1" becomes "v2.0.0".
func (p *PackageVersion) SemanticVersion() (string, error) {
	locked, err := p.LockedVersion()
	if err != nil {
		return "", err
	}
	if v := "v" + locked; semver.IsValid(v) {
		return semver.Canonical(v), nil
	}
	v := semver.Canonical("v" + leadingVersionRE.FindString(locked))
	if v == "" {
		return "", errors.New(errors.ErrCodeInvalidPackage,
			"cannot determine semantic version for package %s in version %s", p.Name, locked)
	}
	return v, nil
}

// Compare orders two locked versions of the same package.
// It returns -1, 0 or +1 like [semver.Compare].
func (p *PackageVersion) Compare(other *PackageVersion) (int, error) {
	if p.Name != other.Name {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"comparing package versions of different package - %s and %s", p.Name, other.Name)
	}
	a, err := p.SemanticVersion()
	if err != nil {
		return 0, err
	}
	b, err := other.SemanticVersion()
	if err != nil {
		return 0, err
	}
	return semver.Compare(a, b), nil
}
