package python

import (
	"os"
	"slices"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/adviser/pkg/errors"
)

// vcsKeys mark Pipfile entries installed from version control rather than an index.
var vcsKeys = []string{"git", "hg", "bzr", "svn"}

// FromPipfileEntry builds a PackageVersion from a Pipfile [packages] entry.
// The entry is either a version string ("==1.0.0", "*") or a table with
// version, index, markers and extras keys. A named index is recorded as a
// Source carrying only its name; [ParsePipfile] resolves it against the
// project's sources.
func FromPipfileEntry(name string, entry any, develop bool) (*PackageVersion, error) {
	pv := &PackageVersion{Name: name, Develop: develop}

	switch e := entry.(type) {
	case string:
		pv.Version = e
	case map[string]any:
		for _, vcs := range vcsKeys {
			if _, ok := e[vcs]; ok {
				return nil, errors.New(errors.ErrCodeUnsupported,
					"package %s uses a version control system instead of package index", name)
			}
		}
		version, _ := e["version"].(string)
		if version == "" {
			version = "*"
		}
		pv.Version = version
		if idx, ok := e["index"].(string); ok && idx != "" {
			pv.Index = &Source{Name: idx}
		}
		pv.Markers, _ = e["markers"].(string)
		extras, err := stringList(e["extras"])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "package %s: extras", name)
		}
		pv.Extras = extras
	default:
		return nil, errors.New(errors.ErrCodeInvalidManifest, "package %s has unsupported entry type %T", name, entry)
	}
	return pv, nil
}

// ToPipfileEntry renders the package as a Pipfile [packages] entry.
// Packages carrying only a version are rendered as a plain string.
func (p *PackageVersion) ToPipfileEntry() any {
	result := make(map[string]any)
	if p.Index != nil && p.Index.Name != "" {
		result["index"] = p.Index.Name
	}
	if p.Markers != "" {
		result["markers"] = p.Markers
	}
	if len(p.Extras) > 0 {
		result["extras"] = slices.Clone(p.Extras)
	}
	if len(result) == 0 {
		return p.Version
	}
	result["version"] = p.Version
	return result
}

func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return slices.Clone(list), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidManifest, "expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidManifest, "expected list of strings, got %T", v)
	}
}

// Project is an application described by a Pipfile.
type Project struct {
	Sources       []*Source         // Declared package indexes, in file order
	Packages      []*PackageVersion // Runtime dependencies sorted by name
	DevPackages   []*PackageVersion // Development dependencies sorted by name
	PythonVersion string            // [requires] python_version, if declared
}

type pipfile struct {
	Sources     []*Source      `toml:"source"`
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
	Requires    struct {
		PythonVersion string `toml:"python_version"`
	} `toml:"requires"`
}

// ParsePipfile decodes a Pipfile. Named package indexes are resolved against
// the declared sources; packages without an index use the first source.
func ParsePipfile(data []byte) (*Project, error) {
	var pf pipfile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode Pipfile")
	}

	p := &Project{Sources: pf.Sources, PythonVersion: pf.Requires.PythonVersion}
	for _, s := range p.Sources {
		if err := errors.ValidateURL(s.URL); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "source %q", s.Name)
		}
	}

	var err error
	if p.Packages, err = p.parseSection(pf.Packages, false); err != nil {
		return nil, err
	}
	if p.DevPackages, err = p.parseSection(pf.DevPackages, true); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadPipfile reads and decodes the Pipfile at path.
func LoadPipfile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, err
	}
	return ParsePipfile(data)
}

func (p *Project) parseSection(section map[string]any, develop bool) ([]*PackageVersion, error) {
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*PackageVersion, 0, len(names))
	for _, name := range names {
		if err := errors.ValidatePythonPackageName(name); err != nil {
			return nil, err
		}
		pv, err := FromPipfileEntry(name, section[name], develop)
		if err != nil {
			return nil, err
		}
		if err := p.resolveIndex(pv); err != nil {
			return nil, err
		}
		out = append(out, pv)
	}
	return out, nil
}

func (p *Project) resolveIndex(pv *PackageVersion) error {
	if pv.Index == nil {
		if len(p.Sources) > 0 {
			pv.Index = p.Sources[0]
		}
		return nil
	}
	src := p.Source(pv.Index.Name)
	if src == nil {
		return errors.New(errors.ErrCodeInvalidManifest,
			"package %s refers to undeclared index %q", pv.Name, pv.Index.Name)
	}
	pv.Index = src
	return nil
}

// Source returns the declared source with the given name, or nil.
func (p *Project) Source(name string) *Source {
	for _, s := range p.Sources {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// HasPackage reports whether the project declares name as a runtime or
// development dependency. Names are compared in PEP 503 normalized form.
func (p *Project) HasPackage(name string) bool {
	return p.Package(name) != nil
}

// Package returns the declared dependency called name, or nil.
func (p *Project) Package(name string) *PackageVersion {
	want := NormalizeName(name)
	for _, section := range [][]*PackageVersion{p.Packages, p.DevPackages} {
		for _, pv := range section {
			if NormalizeName(pv.Name) == want {
				return pv
			}
		}
	}
	return nil
}
