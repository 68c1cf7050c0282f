package python

import (
	"encoding/json"
	"os"
	"slices"
	"sort"

	"github.com/matzehuels/adviser/pkg/errors"
)

// LockEntry is a package entry as stored in Pipfile.lock.
type LockEntry struct {
	Version string   `json:"version"`
	Hashes  []string `json:"hashes"`
	Index   string   `json:"index,omitempty"`
	Markers string   `json:"markers,omitempty"`
	Extras  []string `json:"extras,omitempty"`
}

// FromPipfileLockEntry builds a PackageVersion from its Pipfile.lock entry.
// Both version and hashes are required. A named index is recorded as a Source
// carrying only its name.
func FromPipfileLockEntry(name string, entry LockEntry, develop bool) (*PackageVersion, error) {
	if entry.Version == "" || len(entry.Hashes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest,
			"package %s has missing or empty configuration in the locked entry", name)
	}
	pv := &PackageVersion{
		Name:    name,
		Version: entry.Version,
		Develop: develop,
		Markers: entry.Markers,
		Extras:  slices.Clone(entry.Extras),
		Hashes:  slices.Clone(entry.Hashes),
	}
	if entry.Index != "" {
		pv.Index = &Source{Name: entry.Index}
	}
	return pv, nil
}

// ToPipfileLockEntry renders the package as a Pipfile.lock entry.
// The package must be locked and carry at least one hash.
func (p *PackageVersion) ToPipfileLockEntry() (LockEntry, error) {
	if !p.IsLocked() {
		return LockEntry{}, errors.New(errors.ErrCodeInternal,
			"trying to generate Pipfile.lock with packages not correctly locked: %s %s", p.Name, p.Version)
	}
	if len(p.Hashes) == 0 {
		return LockEntry{}, errors.New(errors.ErrCodeInternal,
			"trying to generate Pipfile.lock without assigned hashes for package: %s", p.Name)
	}
	entry := LockEntry{
		Version: p.Version,
		Hashes:  slices.Clone(p.Hashes),
		Markers: p.Markers,
		Extras:  slices.Clone(p.Extras),
	}
	if p.Index != nil {
		entry.Index = p.Index.Name
	}
	return entry, nil
}

// Lock is the decoded content of a Pipfile.lock.
type Lock struct {
	Sources []*Source         // Indexes listed in _meta.sources
	Default []*PackageVersion // Runtime packages sorted by name
	Develop []*PackageVersion // Development packages sorted by name
}

type pipfileLock struct {
	Meta struct {
		Sources []*Source `json:"sources"`
	} `json:"_meta"`
	Default map[string]LockEntry `json:"default"`
	Develop map[string]LockEntry `json:"develop"`
}

// ParsePipfileLock decodes a Pipfile.lock document and resolves package
// indexes against _meta.sources.
func ParsePipfileLock(data []byte) (*Lock, error) {
	var raw pipfileLock
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode Pipfile.lock")
	}

	l := &Lock{Sources: raw.Meta.Sources}
	var err error
	if l.Default, err = l.parseSection(raw.Default, false); err != nil {
		return nil, err
	}
	if l.Develop, err = l.parseSection(raw.Develop, true); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadPipfileLock reads and decodes the Pipfile.lock at path.
func LoadPipfileLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, err
	}
	return ParsePipfileLock(data)
}

func (l *Lock) parseSection(section map[string]LockEntry, develop bool) ([]*PackageVersion, error) {
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*PackageVersion, 0, len(names))
	for _, name := range names {
		pv, err := FromPipfileLockEntry(name, section[name], develop)
		if err != nil {
			return nil, err
		}
		if pv.Index != nil {
			src := l.source(pv.Index.Name)
			if src == nil {
				return nil, errors.New(errors.ErrCodeInvalidManifest,
					"package %s refers to undeclared index %q", name, pv.Index.Name)
			}
			pv.Index = src
		} else if len(l.Sources) > 0 {
			pv.Index = l.Sources[0]
		}
		out = append(out, pv)
	}
	return out, nil
}

func (l *Lock) source(name string) *Source {
	for _, s := range l.Sources {
		if s.Name == name {
			return s
		}
	}
	return nil
}
