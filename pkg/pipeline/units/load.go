package units

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/adviser/pkg/errors"
	"github.com/matzehuels/adviser/pkg/pipeline"
)

// File is the on-disk schema of a catalog file.
type File struct {
	Units []Definition `yaml:"units" toml:"units"`
}

// ParseYAML decodes and validates a YAML catalog.
func ParseYAML(data []byte) ([]Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode catalog")
	}
	return validated(f.Units)
}

// ParseTOML decodes and validates a TOML catalog.
func ParseTOML(data []byte) ([]Definition, error) {
	var f File
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode catalog")
	}
	return validated(f.Units)
}

func validated(defs []Definition) ([]Definition, error) {
	out := make([]Definition, len(defs))
	for i, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		out[i] = def.Normalized()
	}
	return out, nil
}

// LoadFile reads a catalog file. The format follows the extension: .yaml or
// .yml for YAML, .toml for TOML.
func LoadFile(path string) ([]Definition, error) {
	parse, ok := parserFor(path)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported catalog format: %s", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	defs, err := parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return defs, nil
}

// LoadDir reads every catalog file in dir, in file name order. Missing
// directories yield no definitions.
func LoadDir(dir string) ([]Definition, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", dir)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := parserFor(entry.Name()); ok {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	var defs []Definition
	for _, path := range paths {
		fileDefs, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	return defs, nil
}

// Load reads a catalog from a file or a directory of files.
func Load(path string) ([]Definition, error) {
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "stat %s", path)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// Catalog turns definitions into a pipeline catalog, in order. Duplicate
// names fail with INVALID_CONFIGURATION.
func Catalog(defs []Definition) (*pipeline.Catalog, error) {
	c, err := pipeline.NewCatalog()
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		r, err := NewRule(def)
		if err != nil {
			return nil, err
		}
		if err := c.Register(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func parserFor(name string) (func([]byte) ([]Definition, error), bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML, true
	case ".toml":
		return ParseTOML, true
	}
	return nil, false
}
